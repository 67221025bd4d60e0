package services

import (
	"context"
	"crypto/ed25519"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/babylonlabs-io/token-vault-ledger/internal/authority"
	"github.com/babylonlabs-io/token-vault-ledger/internal/clients/tokenclient"
	"github.com/babylonlabs-io/token-vault-ledger/internal/config"
	"github.com/babylonlabs-io/token-vault-ledger/internal/db/memdb"
	"github.com/babylonlabs-io/token-vault-ledger/internal/types"
	"github.com/babylonlabs-io/token-vault-ledger/testutil"
	"github.com/babylonlabs-io/token-vault-ledger/tests/mocks"
)

const testNow = int64(1_700_000_000)

type recordedEvents struct {
	mu     sync.Mutex
	events []*types.VaultEvent
}

func (r *recordedEvents) Broadcast(ev *types.VaultEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recordedEvents) all() []*types.VaultEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*types.VaultEvent(nil), r.events...)
}

type harness struct {
	cfg       *config.Config
	store     *memdb.Store
	ledger    *tokenclient.MemoryLedger
	publisher *mocks.Publisher
	feed      *recordedEvents
	svc       *Service

	owner    authority.Identity
	ownerKey ed25519.PrivateKey
	asset    authority.Identity
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		Vault: config.VaultConfig{
			ProgramID:      testutil.RandomIdentity(t).String(),
			TokenProgramID: testutil.RandomIdentity(t).String(),
			AssetDecimals:  6,
		},
		Token: config.TokenConfig{
			MaxRetryTimes: 3,
			RetryInterval: time.Millisecond,
		},
		Poller: config.PollerConfig{InvariantPollingInterval: 10 * time.Millisecond},
	}
}

// newHarness returns a service over the in-memory store and token ledger.
// The vault is not initialized yet.
func newHarness(t *testing.T) *harness {
	t.Helper()

	cfg := testConfig(t)
	store := memdb.New()
	ledger := tokenclient.NewMemoryLedger()
	publisher := mocks.NewPublisher(t)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil).Maybe()
	feed := &recordedEvents{}

	svc := NewService(cfg, store, ledger, publisher, feed)
	svc.now = func() time.Time { return time.Unix(testNow, 0) }

	owner, ownerKey := testutil.RandomKey(t)
	return &harness{
		cfg:       cfg,
		store:     store,
		ledger:    ledger,
		publisher: publisher,
		feed:      feed,
		svc:       svc,
		owner:     owner,
		ownerKey:  ownerKey,
		asset:     testutil.RandomIdentity(t),
	}
}

func newInitializedHarness(t *testing.T) *harness {
	t.Helper()

	h := newHarness(t)
	_, err := h.svc.Initialize(context.Background(), h.owner, h.asset)
	require.NoError(t, err)
	return h
}

// fundUser mints amount into the associated token account of a new user.
func (h *harness) fundUser(t *testing.T, amount uint64) (authority.Identity, ed25519.PrivateKey) {
	t.Helper()

	user, key := testutil.RandomKey(t)
	require.NoError(t, h.ledger.Mint(h.userAccount(t, user), h.asset, user, amount))
	return user, key
}

func (h *harness) userAccount(t *testing.T, user authority.Identity) authority.Identity {
	t.Helper()

	account, err := authority.AssociatedAccount(h.cfg.Vault.TokenProgram(), user, h.asset)
	require.NoError(t, err)
	return account
}

func (h *harness) tokenBalance(t *testing.T, account authority.Identity) uint64 {
	t.Helper()

	balance, err := h.ledger.GetBalance(context.Background(), account)
	require.NoError(t, err)
	return balance
}

func (h *harness) vaultBalance(t *testing.T) uint64 {
	t.Helper()

	cfg, err := h.svc.GetGlobalConfig(context.Background())
	require.NoError(t, err)
	return h.tokenBalance(t, cfg.Vault)
}

func (h *harness) ledgerAmount(t *testing.T, user authority.Identity) uint64 {
	t.Helper()

	ledger, err := h.svc.GetUserLedger(context.Background(), user)
	require.NoError(t, err)
	return ledger.Amount
}

func (h *harness) vault(t *testing.T) authority.Identity {
	t.Helper()

	cfg, err := h.svc.GetGlobalConfig(context.Background())
	require.NoError(t, err)
	return cfg.Vault
}

// depositProof signs the deposit intent of user paying amount of asset into vault.
func depositProof(user authority.Identity, key ed25519.PrivateKey, asset, vault authority.Identity, amount uint64) authority.Proof {
	intent := authority.Intent{
		Operation: authority.OpDeposit,
		Caller:    user,
		AssetID:   asset,
		Amount:    amount,
		Vault:     vault,
		Nonce:     rand.Uint64(),
		ExpiresAt: testNow + 60,
	}
	return intent.Proof(intent.Sign(key))
}

func (h *harness) deposit(t *testing.T, user authority.Identity, key ed25519.PrivateKey, amount uint64) (*types.VaultEvent, error) {
	t.Helper()

	cfg, err := h.svc.GetGlobalConfig(context.Background())
	if err != nil {
		return nil, err
	}
	proof := depositProof(user, key, h.asset, cfg.Vault, amount)
	return h.svc.Deposit(context.Background(), user, amount, h.asset, proof)
}
