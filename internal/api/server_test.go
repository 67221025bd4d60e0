package api

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/babylonlabs-io/token-vault-ledger/internal/authority"
	"github.com/babylonlabs-io/token-vault-ledger/internal/clients/tokenclient"
	"github.com/babylonlabs-io/token-vault-ledger/internal/config"
	"github.com/babylonlabs-io/token-vault-ledger/internal/db/memdb"
	"github.com/babylonlabs-io/token-vault-ledger/internal/feed"
	"github.com/babylonlabs-io/token-vault-ledger/internal/queue"
	"github.com/babylonlabs-io/token-vault-ledger/internal/services"
	"github.com/babylonlabs-io/token-vault-ledger/internal/types"
	"github.com/babylonlabs-io/token-vault-ledger/testutil"
)

type testEnv struct {
	cfg    *config.Config
	ledger *tokenclient.MemoryLedger
	svc    *services.Service
	server *Server
	http   *httptest.Server
	asset  authority.Identity
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{
		Vault: config.VaultConfig{
			ProgramID:      testutil.RandomIdentity(t).String(),
			TokenProgramID: testutil.RandomIdentity(t).String(),
			AssetDecimals:  2,
		},
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 8080, MaxSignatureTTL: 5 * time.Minute},
	}
	ledger := tokenclient.NewMemoryLedger()
	hub := feed.NewHub()
	svc := services.NewService(cfg, memdb.New(), ledger, queue.NoopPublisher{}, hub)

	server := New(cfg, svc, hub)
	httpServer := httptest.NewServer(server.Handler())
	t.Cleanup(httpServer.Close)

	return &testEnv{
		cfg:    cfg,
		ledger: ledger,
		svc:    svc,
		server: server,
		http:   httpServer,
		asset:  testutil.RandomIdentity(t),
	}
}

func (e *testEnv) fund(t *testing.T, user authority.Identity, amount uint64) {
	t.Helper()

	account, err := authority.AssociatedAccount(e.cfg.Vault.TokenProgram(), user, e.asset)
	require.NoError(t, err)
	require.NoError(t, e.ledger.Mint(account, e.asset, user, amount))
}

func signRequest(key ed25519.PrivateKey, op authority.Operation, req signedRequest) signedRequest {
	intent := req.intent(op)
	req.Signature = base64.StdEncoding.EncodeToString(intent.Sign(key))
	return req
}

func (e *testEnv) post(t *testing.T, path string, body any) (int, []byte) {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(e.http.URL+path, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, buf.Bytes()
}

func (e *testEnv) get(t *testing.T, path string) (int, []byte) {
	t.Helper()

	resp, err := http.Get(e.http.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, buf.Bytes()
}

func requireErrorCode(t *testing.T, body []byte, code types.ErrorCode) {
	t.Helper()

	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp), string(body))
	assert.Equal(t, string(code), errResp.ErrorCode, errResp.Message)
}

func (e *testEnv) vault(t *testing.T) string {
	t.Helper()

	cfg, err := e.svc.GetGlobalConfig(context.Background())
	require.NoError(t, err)
	return cfg.Vault.String()
}

func expiry() int64 {
	return time.Now().Add(time.Minute).Unix()
}

func (e *testEnv) initialize(t *testing.T) (authority.Identity, ed25519.PrivateKey) {
	t.Helper()

	owner, key := testutil.RandomKey(t)
	status, body := e.post(t, "/v1/initialize", signRequest(key, authority.OpInitialize, signedRequest{
		Caller:    owner.String(),
		AssetID:   e.asset.String(),
		ExpiresAt: expiry(),
	}))
	require.Equal(t, http.StatusCreated, status, string(body))
	return owner, key
}

func TestVaultFlow(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.get(t, "/v1/config")
	require.Equal(t, http.StatusNotFound, status)
	requireErrorCode(t, body, types.NotInitialized)

	owner, _ := env.initialize(t)

	status, body = env.get(t, "/v1/config")
	require.Equal(t, http.StatusOK, status)
	var cfg GlobalConfigResponse
	require.NoError(t, json.Unmarshal(body, &cfg))
	assert.Equal(t, owner.String(), cfg.Owner)
	assert.Equal(t, env.asset.String(), cfg.AssetID)

	user, userKey := testutil.RandomKey(t)
	env.fund(t, user, 1000)

	status, body = env.post(t, "/v1/deposit", signRequest(userKey, authority.OpDeposit, signedRequest{
		Caller:    user.String(),
		AssetID:   env.asset.String(),
		Amount:    100,
		Vault:     cfg.Vault,
		ExpiresAt: expiry(),
	}))
	require.Equal(t, http.StatusOK, status, string(body))
	var ev VaultEventResponse
	require.NoError(t, json.Unmarshal(body, &ev))
	assert.Equal(t, types.EventDeposit.String(), ev.Type)
	assert.Equal(t, uint64(100), ev.UserTotalStaked)
	assert.Equal(t, "1.00", ev.AmountDisplay)
	assert.Equal(t, uint64(100), ev.TotalInVault)

	status, body = env.post(t, "/v1/withdraw", signRequest(userKey, authority.OpWithdraw, signedRequest{
		Caller:    user.String(),
		AssetID:   env.asset.String(),
		Amount:    150,
		ExpiresAt: expiry(),
	}))
	require.Equal(t, http.StatusBadRequest, status)
	requireErrorCode(t, body, types.InvalidAmount)

	status, body = env.post(t, "/v1/withdraw", signRequest(userKey, authority.OpWithdraw, signedRequest{
		Caller:    user.String(),
		AssetID:   env.asset.String(),
		Amount:    40,
		ExpiresAt: expiry(),
	}))
	require.Equal(t, http.StatusOK, status, string(body))
	require.NoError(t, json.Unmarshal(body, &ev))
	assert.Equal(t, types.EventWithdraw.String(), ev.Type)
	assert.Equal(t, uint64(60), ev.UserTotalStaked)
	assert.Equal(t, "0.60", ev.UserTotalStakedDisplay)

	status, body = env.get(t, "/v1/ledgers/"+user.String())
	require.Equal(t, http.StatusOK, status)
	var ledger UserLedgerResponse
	require.NoError(t, json.Unmarshal(body, &ledger))
	assert.Equal(t, uint64(60), ledger.Amount)
	assert.Equal(t, "0.60", ledger.AmountDisplay)

	status, _ = env.get(t, "/v1/stats")
	require.Equal(t, http.StatusNotFound, status)

	_, err := env.svc.CheckInvariant(context.Background())
	require.NoError(t, err)

	status, body = env.get(t, "/v1/stats")
	require.Equal(t, http.StatusOK, status)
	var stats VaultStatsResponse
	require.NoError(t, json.Unmarshal(body, &stats))
	assert.True(t, stats.Healthy)
	assert.Equal(t, "60", stats.TotalStaked)
	assert.Equal(t, "0.60", stats.TotalStakedDisplay)
	assert.Equal(t, uint64(1), stats.Depositors)
}

func TestSignedRequests(t *testing.T) {
	env := newTestEnv(t)
	owner, ownerKey := env.initialize(t)
	user, userKey := testutil.RandomKey(t)
	env.fund(t, user, 10)

	deposit := signedRequest{
		Caller:    user.String(),
		AssetID:   env.asset.String(),
		Amount:    5,
		Vault:     env.vault(t),
		ExpiresAt: expiry(),
	}

	t.Run("tampered amount", func(t *testing.T) {
		req := signRequest(userKey, authority.OpDeposit, deposit)
		req.Amount = 10
		status, body := env.post(t, "/v1/deposit", req)
		require.Equal(t, http.StatusUnauthorized, status)
		requireErrorCode(t, body, types.Unauthorized)
	})

	t.Run("signed for another operation", func(t *testing.T) {
		req := signRequest(userKey, authority.OpWithdraw, deposit)
		status, _ := env.post(t, "/v1/deposit", req)
		require.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("expired", func(t *testing.T) {
		req := deposit
		req.ExpiresAt = time.Now().Add(-time.Second).Unix()
		status, body := env.post(t, "/v1/deposit", signRequest(userKey, authority.OpDeposit, req))
		require.Equal(t, http.StatusUnauthorized, status)
		requireErrorCode(t, body, types.Unauthorized)
	})

	t.Run("expiry too far ahead", func(t *testing.T) {
		req := deposit
		req.ExpiresAt = time.Now().Add(time.Hour).Unix()
		status, body := env.post(t, "/v1/deposit", signRequest(userKey, authority.OpDeposit, req))
		require.Equal(t, http.StatusBadRequest, status)
		requireErrorCode(t, body, types.ValidationError)
	})

	t.Run("unknown field", func(t *testing.T) {
		status, body := env.post(t, "/v1/deposit", map[string]any{"caller": user.String(), "memo": "x"})
		require.Equal(t, http.StatusBadRequest, status)
		requireErrorCode(t, body, types.BadRequest)
	})

	t.Run("deposit over the token balance", func(t *testing.T) {
		req := deposit
		req.Amount = 11
		status, body := env.post(t, "/v1/deposit", signRequest(userKey, authority.OpDeposit, req))
		require.Equal(t, http.StatusUnprocessableEntity, status)
		requireErrorCode(t, body, types.TransferFailed)
	})

	t.Run("zero amount", func(t *testing.T) {
		req := deposit
		req.Amount = 0
		status, body := env.post(t, "/v1/deposit", signRequest(userKey, authority.OpDeposit, req))
		require.Equal(t, http.StatusBadRequest, status)
		requireErrorCode(t, body, types.ZeroAmount)
	})

	t.Run("wrong asset", func(t *testing.T) {
		req := deposit
		req.AssetID = testutil.RandomIdentity(t).String()
		status, body := env.post(t, "/v1/deposit", signRequest(userKey, authority.OpDeposit, req))
		require.Equal(t, http.StatusBadRequest, status)
		requireErrorCode(t, body, types.InvalidTokenAddress)
	})

	t.Run("deposit into another account", func(t *testing.T) {
		req := deposit
		req.Vault = testutil.RandomIdentity(t).String()
		status, body := env.post(t, "/v1/deposit", signRequest(userKey, authority.OpDeposit, req))
		require.Equal(t, http.StatusUnauthorized, status)
		requireErrorCode(t, body, types.Unauthorized)
	})

	t.Run("signature accepted once", func(t *testing.T) {
		req := signRequest(userKey, authority.OpDeposit, deposit)

		status, body := env.post(t, "/v1/deposit", req)
		require.Equal(t, http.StatusOK, status, string(body))

		for i := 0; i < 2; i++ {
			status, body = env.post(t, "/v1/deposit", req)
			require.Equal(t, http.StatusUnauthorized, status)
			requireErrorCode(t, body, types.Unauthorized)
		}

		// an equal deposit under a new nonce is a new request
		again := deposit
		again.Nonce = 1
		status, body = env.post(t, "/v1/deposit", signRequest(userKey, authority.OpDeposit, again))
		require.Equal(t, http.StatusOK, status, string(body))

		ledger, err := env.svc.GetUserLedger(context.Background(), user)
		require.NoError(t, err)
		assert.Equal(t, uint64(10), ledger.Amount)
	})

	t.Run("owner update by a stranger", func(t *testing.T) {
		req := signRequest(userKey, authority.OpUpdateOwner, signedRequest{
			Caller:    user.String(),
			NewOwner:  user.String(),
			ExpiresAt: expiry(),
		})
		status, body := env.post(t, "/v1/owner", req)
		require.Equal(t, http.StatusForbidden, status)
		requireErrorCode(t, body, types.NotAllowedOwner)
	})

	t.Run("owner update by the owner", func(t *testing.T) {
		newOwner := testutil.RandomIdentity(t)
		req := signRequest(ownerKey, authority.OpUpdateOwner, signedRequest{
			Caller:    owner.String(),
			NewOwner:  newOwner.String(),
			ExpiresAt: expiry(),
		})
		status, body := env.post(t, "/v1/owner", req)
		require.Equal(t, http.StatusOK, status, string(body))

		var cfg GlobalConfigResponse
		require.NoError(t, json.Unmarshal(body, &cfg))
		assert.Equal(t, newOwner.String(), cfg.Owner)
	})

	t.Run("initialize twice", func(t *testing.T) {
		req := signRequest(userKey, authority.OpInitialize, signedRequest{
			Caller:    user.String(),
			AssetID:   env.asset.String(),
			ExpiresAt: expiry(),
		})
		status, body := env.post(t, "/v1/initialize", req)
		require.Equal(t, http.StatusConflict, status)
		requireErrorCode(t, body, types.AlreadyInitialized)
	})
}

func TestHealthcheck(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.get(t, "/healthcheck")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestEventsWS(t *testing.T) {
	env := newTestEnv(t)
	env.initialize(t)
	user, userKey := testutil.RandomKey(t)
	env.fund(t, user, 100)

	wsURL := "ws" + strings.TrimPrefix(env.http.URL, "http") + "/v1/events/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return env.server.hub.Subscribers() == 1
	}, time.Second, 10*time.Millisecond)

	status, body := env.post(t, "/v1/deposit", signRequest(userKey, authority.OpDeposit, signedRequest{
		Caller:    user.String(),
		AssetID:   env.asset.String(),
		Amount:    25,
		Vault:     env.vault(t),
		ExpiresAt: expiry(),
	}))
	require.Equal(t, http.StatusOK, status, string(body))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev types.VaultEvent
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, types.EventDeposit, ev.Type)
	assert.Equal(t, user, ev.User)
	assert.Equal(t, uint64(25), ev.Amount)
}
