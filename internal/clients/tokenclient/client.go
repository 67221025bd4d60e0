package tokenclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"

	"github.com/babylonlabs-io/token-vault-ledger/internal/authority"
	"github.com/babylonlabs-io/token-vault-ledger/internal/clients/client"
	"github.com/babylonlabs-io/token-vault-ledger/internal/config"
)

const (
	transfersPath       = "/v1/transfers"
	accountTemplatePath = "/v1/accounts/{account}"
	balanceTemplatePath = "/v1/accounts/{account}/balance"
)

// Client talks to a token ledger over its json http api.
type Client struct {
	httpClient *http.Client
	cfg        *config.TokenConfig
}

func NewClient(cfg *config.TokenConfig) *Client {
	return &Client{
		httpClient: &http.Client{},
		cfg:        cfg,
	}
}

func (c *Client) GetBaseURL() string {
	return strings.TrimSuffix(c.cfg.URL, "/")
}

func (c *Client) GetDefaultRequestTimeout() time.Duration {
	return c.cfg.Timeout
}

func (c *Client) GetHttpClient() *http.Client {
	return c.httpClient
}

// Transfer is sent once. A transport failure leaves the outcome unknown to
// the caller, so it is never retried here.
func (c *Client) Transfer(ctx context.Context, req *TransferRequest) (*TransferReceipt, error) {
	opts := &client.HttpClientOptions{
		Path:         transfersPath,
		TemplatePath: transfersPath,
	}

	receipt, err := client.SendRequest[TransferRequest, TransferReceipt](ctx, c, http.MethodPost, opts, req)
	if err != nil {
		return nil, toTransferError(err)
	}

	return receipt, nil
}

func (c *Client) GetBalance(ctx context.Context, account authority.Identity) (uint64, error) {
	type empty struct{}
	type balanceResponse struct {
		Account string `json:"account"`
		Balance uint64 `json:"balance"`
	}

	callForBalance := func() (*balanceResponse, error) {
		opts := &client.HttpClientOptions{
			Path:         "/v1/accounts/" + account.String() + "/balance",
			TemplatePath: balanceTemplatePath,
		}
		resp, err := client.SendRequest[empty, balanceResponse](ctx, c, http.MethodGet, opts, nil)
		if err != nil {
			return nil, retryUnlessRejected(toTransferError(err))
		}
		return resp, nil
	}

	resp, err := clientCallWithRetry(callForBalance, c.cfg)
	if err != nil {
		return 0, fmt.Errorf("failed to get balance of %s: %w", account, err)
	}

	return resp.Balance, nil
}

func (c *Client) EnsureAccount(ctx context.Context, account, asset, owner authority.Identity) error {
	type accountRequest struct {
		Asset authority.Identity `json:"asset"`
		Owner authority.Identity `json:"owner"`
	}
	type accountResponse struct {
		Account string `json:"account"`
		Created bool   `json:"created"`
	}

	callForAccount := func() (*accountResponse, error) {
		opts := &client.HttpClientOptions{
			Path:         "/v1/accounts/" + account.String(),
			TemplatePath: accountTemplatePath,
		}
		body := &accountRequest{Asset: asset, Owner: owner}
		resp, err := client.SendRequest[accountRequest, accountResponse](ctx, c, http.MethodPut, opts, body)
		if err != nil {
			return nil, retryUnlessRejected(toTransferError(err))
		}
		return resp, nil
	}

	resp, err := clientCallWithRetry(callForAccount, c.cfg)
	if err != nil {
		return fmt.Errorf("failed to ensure account %s: %w", account, err)
	}
	if resp.Created {
		log.Ctx(ctx).Debug().Str("account", account.String()).Msg("Created token account")
	}

	return nil
}

// toTransferError decodes a rejection sent by the token ledger. Other
// failures are returned unchanged.
func toTransferError(err error) error {
	var httpErr *client.HttpError
	if !errors.As(err, &httpErr) {
		return err
	}
	if httpErr.StatusCode >= http.StatusInternalServerError {
		return err
	}

	var transferErr TransferError
	if jsonErr := json.Unmarshal(httpErr.Body, &transferErr); jsonErr != nil || transferErr.Code == "" {
		return newTransferError(CodeInvalidRequest, "token ledger returned status %d", httpErr.StatusCode)
	}

	return &transferErr
}

func retryUnlessRejected(err error) error {
	var transferErr *TransferError
	if errors.As(err, &transferErr) {
		return retry.Unrecoverable(err)
	}
	return err
}

func clientCallWithRetry[T any](
	call retry.RetryableFuncWithData[*T], cfg *config.TokenConfig,
) (*T, error) {
	result, err := retry.DoWithData(call, retry.Attempts(cfg.MaxRetryTimes), retry.Delay(cfg.RetryInterval), retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Debug().
				Uint("attempt", n+1).
				Uint("max_attempts", cfg.MaxRetryTimes).
				Err(err).
				Msg("failed to call the token ledger")
		}))

	if err != nil {
		return nil, err
	}
	return result, nil
}
