//go:build integration

package db_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/babylonlabs-io/token-vault-ledger/internal/db"
	"github.com/babylonlabs-io/token-vault-ledger/internal/db/dbtest"
	"github.com/babylonlabs-io/token-vault-ledger/internal/db/model"
	"github.com/babylonlabs-io/token-vault-ledger/testutil"
)

func TestMongoStore(t *testing.T) {
	dbtest.Run(t, func(t *testing.T) db.DbInterface {
		resetDatabase(t)
		return testDB
	})
}

func TestUserLedgerStorage(t *testing.T) {
	ctx := t.Context()
	t.Cleanup(func() {
		resetDatabase(t)
	})

	owner := testutil.RandomIdentity(t)
	_, err := testDB.CreditUserLedger(ctx, owner, 42, 7)
	require.NoError(t, err)

	// amounts are stored as int64 so they stay usable in aggregations
	var raw bson.M
	err = mongoDB.Collection(model.UserLedgerCollection).FindOne(ctx, bson.M{"_id": owner}).Decode(&raw)
	require.NoError(t, err)
	assert.Equal(t, int64(42), raw["amount"])
	assert.Equal(t, int64(7), raw["updated_time"])
}
