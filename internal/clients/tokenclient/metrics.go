package tokenclient

import (
	"context"
	"time"

	"github.com/babylonlabs-io/token-vault-ledger/internal/authority"
	"github.com/babylonlabs-io/token-vault-ledger/internal/observability/metrics"
)

type tokenClientWithMetrics struct {
	token TokenInterface
}

func NewTokenClientWithMetrics(token TokenInterface) *tokenClientWithMetrics {
	return &tokenClientWithMetrics{token: token}
}

func (t *tokenClientWithMetrics) Transfer(ctx context.Context, req *TransferRequest) (*TransferReceipt, error) {
	return runTokenClientMethodWithMetrics("Transfer", func() (*TransferReceipt, error) {
		return t.token.Transfer(ctx, req)
	})
}

func (t *tokenClientWithMetrics) GetBalance(ctx context.Context, account authority.Identity) (uint64, error) {
	return runTokenClientMethodWithMetrics("GetBalance", func() (uint64, error) {
		return t.token.GetBalance(ctx, account)
	})
}

func (t *tokenClientWithMetrics) EnsureAccount(ctx context.Context, account, asset, owner authority.Identity) error {
	_, err := runTokenClientMethodWithMetrics("EnsureAccount", func() (struct{}, error) {
		return struct{}{}, t.token.EnsureAccount(ctx, account, asset, owner)
	})
	return err
}

func runTokenClientMethodWithMetrics[T any](method string, f func() (T, error)) (T, error) {
	startTime := time.Now()
	v, err := f()
	duration := time.Since(startTime)

	metrics.RecordTokenClientLatency(duration, method, err != nil)
	return v, err
}
