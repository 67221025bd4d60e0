package feed

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/babylonlabs-io/token-vault-ledger/internal/types"
	"github.com/babylonlabs-io/token-vault-ledger/testutil"
)

func TestHub(t *testing.T) {
	hub := NewHub()
	first, unsubscribeFirst := hub.Subscribe()
	second, unsubscribeSecond := hub.Subscribe()
	require.Equal(t, 2, hub.Subscribers())

	ev := types.NewDepositEvent(testutil.RandomIdentity(t), 100, 100, 100, 1700000000)
	hub.Broadcast(ev)

	for _, ch := range []<-chan []byte{first, second} {
		var got types.VaultEvent
		require.NoError(t, json.Unmarshal(<-ch, &got))
		assert.Equal(t, *ev, got)
	}

	unsubscribeFirst()
	unsubscribeFirst()
	assert.Equal(t, 1, hub.Subscribers())
	_, open := <-first
	assert.False(t, open)

	unsubscribeSecond()
	assert.Zero(t, hub.Subscribers())
}

func TestHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	hub := NewHub()
	ch, unsubscribe := hub.Subscribe()
	defer unsubscribe()

	user := testutil.RandomIdentity(t)
	for i := 0; i < subscriberBufferSize+10; i++ {
		hub.Broadcast(types.NewWithdrawEvent(user, 1, 0, 0, int64(i)))
	}

	assert.Len(t, ch, subscriberBufferSize)
}
