package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/babylonlabs-io/token-vault-ledger/internal/authority"
	"github.com/babylonlabs-io/token-vault-ledger/internal/clients/tokenclient"
	"github.com/babylonlabs-io/token-vault-ledger/internal/db"
	"github.com/babylonlabs-io/token-vault-ledger/internal/db/model"
	"github.com/babylonlabs-io/token-vault-ledger/internal/guard"
	"github.com/babylonlabs-io/token-vault-ledger/internal/observability/metrics"
	"github.com/babylonlabs-io/token-vault-ledger/internal/types"
)

const (
	operationInitialize  = "initialize"
	operationUpdateOwner = "update_owner"
	operationDeposit     = "deposit"
	operationWithdraw    = "withdraw"
)

// Initialize creates the vault for assetID with caller as its owner. The
// vault token account is created at the token ledger if it does not exist.
func (s *Service) Initialize(
	ctx context.Context, caller, assetID authority.Identity,
) (cfg *model.GlobalConfigDocument, err error) {
	defer recordOperation(operationInitialize, time.Now(), &err)

	if err := caller.Validate(); err != nil {
		return nil, validationError("invalid caller", err)
	}
	if err := assetID.Validate(); err != nil {
		return nil, validationError("invalid asset id", err)
	}

	unlock := s.locks.Lock(globalConfigLock)
	defer unlock()

	programID := s.cfg.Vault.Program()
	vaultAuthority, bump, err := authority.VaultAuthority(programID)
	if err != nil {
		return nil, types.NewInternalServiceError(fmt.Errorf("failed to derive vault authority: %w", err))
	}
	vault, _, err := authority.VaultAccount(programID, assetID)
	if err != nil {
		return nil, types.NewInternalServiceError(fmt.Errorf("failed to derive vault account: %w", err))
	}

	if err := s.token.EnsureAccount(ctx, vault, assetID, vaultAuthority); err != nil {
		return nil, transferFailure(err)
	}

	cfg = model.NewGlobalConfigDocument(caller, assetID, vault, vaultAuthority, bump, programID, s.now().Unix())
	if err := s.db.CreateGlobalConfig(ctx, cfg); err != nil {
		if db.IsDuplicateKeyError(err) {
			return nil, types.ErrAlreadyInitialized
		}
		return nil, types.NewInternalServiceError(fmt.Errorf("failed to create global config: %w", err))
	}

	log.Ctx(ctx).Info().
		Str("owner", caller.String()).
		Str("asset_id", assetID.String()).
		Str("vault", vault.String()).
		Str("vault_authority", vaultAuthority.String()).
		Msg("Vault initialized")

	return cfg, nil
}

// UpdateOwner hands the owner role from caller to newOwner.
func (s *Service) UpdateOwner(
	ctx context.Context, caller, newOwner authority.Identity,
) (cfg *model.GlobalConfigDocument, err error) {
	defer recordOperation(operationUpdateOwner, time.Now(), &err)

	unlock := s.locks.Lock(globalConfigLock)
	defer unlock()

	cfg, err = s.GetGlobalConfig(ctx)
	if err != nil {
		return nil, err
	}
	if err := guard.CheckOwner(caller, cfg); err != nil {
		return nil, err
	}
	if err := newOwner.Validate(); err != nil {
		return nil, validationError("invalid new owner", err)
	}

	if err := s.db.UpdateGlobalConfigOwner(ctx, caller, newOwner); err != nil {
		if db.IsNotFoundError(err) {
			// another instance changed the owner after the read above
			return nil, types.ErrNotAllowedOwner
		}
		return nil, types.NewInternalServiceError(fmt.Errorf("failed to update owner: %w", err))
	}
	cfg.Owner = newOwner

	log.Ctx(ctx).Info().
		Str("previous_owner", caller.String()).
		Str("owner", newOwner.String()).
		Msg("Vault owner updated")

	return cfg, nil
}

// Deposit moves amount from the associated token account of caller into the
// vault and credits the ledger of caller. A signature proof must carry the
// deposit intent of caller for exactly this asset, amount and vault.
func (s *Service) Deposit(
	ctx context.Context, caller authority.Identity, amount uint64, assetID authority.Identity, proof authority.Proof,
) (ev *types.VaultEvent, err error) {
	defer recordOperation(operationDeposit, time.Now(), &err)

	unlock := s.locks.Lock(caller.String())
	defer unlock()

	cfg, err := s.GetGlobalConfig(ctx)
	if err != nil {
		return nil, err
	}
	if err := guard.CheckAsset(assetID, cfg); err != nil {
		return nil, err
	}
	if err := guard.CheckAmount(amount); err != nil {
		return nil, err
	}

	ledger, err := s.findUserLedger(ctx, caller)
	if err != nil {
		return nil, err
	}
	// checked before the transfer so that a credit can not fail on overflow
	// once the funds have moved
	var current uint64
	if ledger != nil {
		current = ledger.Amount
	}
	if amount > db.MaxAmount || current > db.MaxAmount-amount {
		return nil, types.ErrAmountOverflow
	}

	vault, _, err := s.vaultAuthority(cfg)
	if err != nil {
		return nil, err
	}
	userAccount, err := s.associatedAccount(caller, cfg.AssetID)
	if err != nil {
		return nil, err
	}

	if proof.Kind == authority.ProofSignature {
		if err := proof.VerifyTransfer(caller, cfg.AssetID, vault, amount); err != nil {
			return nil, types.NewError(http.StatusUnauthorized, types.Unauthorized, err)
		}
	}

	req := &tokenclient.TransferRequest{
		ID:     uuid.NewString(),
		Asset:  cfg.AssetID,
		From:   userAccount,
		To:     vault,
		Amount: amount,
		Proof:  proof,
	}
	receipt, err := s.sendTransfer(ctx, req)
	if err != nil {
		if !isTransferRejection(err) {
			metrics.IncLedgerReconciliationRequired()
			log.Ctx(ctx).Error().
				Err(err).
				Str("user", caller.String()).
				Uint64("amount", amount).
				Str("transfer_id", req.ID).
				Msg("Deposit transfer outcome unknown, reconciliation required")
		}
		return nil, transferFailure(err)
	}

	now := s.now().Unix()
	updated, err := s.db.CreditUserLedger(ctx, caller, amount, now)
	if err != nil {
		metrics.IncLedgerReconciliationRequired()
		log.Ctx(ctx).Error().
			Err(err).
			Str("user", caller.String()).
			Uint64("amount", amount).
			Str("transfer_id", receipt.ID).
			Msg("Deposit transferred but the ledger credit failed, reconciliation required")
		return nil, types.NewInternalServiceError(fmt.Errorf("failed to credit user ledger: %w", err))
	}

	ev = types.NewDepositEvent(caller, amount, updated.Amount, receipt.ToBalance, now)
	s.emitEvent(ctx, ev)

	return ev, nil
}

// Withdraw moves amount from the vault back to the associated token account
// of caller. The ledger is debited before the transfer and restored only when
// the token ledger rejects the transfer. A transfer whose outcome stays unknown
// keeps the debit.
func (s *Service) Withdraw(
	ctx context.Context, caller authority.Identity, amount uint64, assetID authority.Identity,
) (ev *types.VaultEvent, err error) {
	defer recordOperation(operationWithdraw, time.Now(), &err)

	unlock := s.locks.Lock(caller.String())
	defer unlock()

	cfg, err := s.GetGlobalConfig(ctx)
	if err != nil {
		return nil, err
	}
	if err := guard.CheckAsset(assetID, cfg); err != nil {
		return nil, err
	}
	ledger, err := s.findUserLedger(ctx, caller)
	if err != nil {
		return nil, err
	}
	if err := guard.CheckSufficientBalance(amount, ledger); err != nil {
		return nil, err
	}
	if err := guard.CheckAmount(amount); err != nil {
		return nil, err
	}

	vault, proof, err := s.vaultAuthority(cfg)
	if err != nil {
		return nil, err
	}
	userAccount, err := s.associatedAccount(caller, cfg.AssetID)
	if err != nil {
		return nil, err
	}
	if err := s.token.EnsureAccount(ctx, userAccount, cfg.AssetID, caller); err != nil {
		return nil, transferFailure(err)
	}

	now := s.now().Unix()
	debited, err := s.db.DebitUserLedger(ctx, caller, amount, now)
	if err != nil {
		if db.IsInsufficientBalanceError(err) || db.IsNotFoundError(err) {
			return nil, types.ErrInvalidAmount
		}
		return nil, types.NewInternalServiceError(fmt.Errorf("failed to debit user ledger: %w", err))
	}

	req := &tokenclient.TransferRequest{
		ID:     uuid.NewString(),
		Asset:  cfg.AssetID,
		From:   vault,
		To:     userAccount,
		Amount: amount,
		Proof:  proof,
	}
	receipt, err := s.sendTransfer(ctx, req)
	if err != nil {
		log := log.Ctx(ctx).With().
			Str("user", caller.String()).
			Uint64("amount", amount).
			Str("transfer_id", req.ID).
			Logger()

		if !isTransferRejection(err) {
			// the funds may have left the vault, the debit stays
			metrics.IncLedgerReconciliationRequired()
			log.Error().Err(err).Msg("Withdraw transfer outcome unknown, ledger debit kept, reconciliation required")
			return nil, transferFailure(err)
		}

		if revertErr := s.db.RevertUserLedgerDebit(ctx, caller, amount, ledger.UpdatedTime); revertErr != nil {
			metrics.IncLedgerReconciliationRequired()
			log.Error().
				Err(revertErr).
				Msg("Withdraw transfer rejected and the ledger debit could not be reverted, reconciliation required")
		}
		return nil, transferFailure(err)
	}

	ev = types.NewWithdrawEvent(caller, amount, debited.Amount, receipt.FromBalance, now)
	s.emitEvent(ctx, ev)

	return ev, nil
}

// vaultAuthority re-derives the vault addresses of cfg and returns the vault
// account with the proof authorising transfers out of it.
func (s *Service) vaultAuthority(cfg *model.GlobalConfigDocument) (authority.Identity, authority.Proof, error) {
	vaultAuthority, bump, err := authority.VaultAuthority(cfg.ProgramID)
	if err != nil {
		return "", authority.Proof{}, types.NewInternalServiceError(fmt.Errorf("failed to derive vault authority: %w", err))
	}
	vault, _, err := authority.VaultAccount(cfg.ProgramID, cfg.AssetID)
	if err != nil {
		return "", authority.Proof{}, types.NewInternalServiceError(fmt.Errorf("failed to derive vault account: %w", err))
	}
	if vaultAuthority != cfg.VaultAuthority || vault != cfg.Vault {
		return "", authority.Proof{}, types.NewInternalServiceError(
			fmt.Errorf("stored vault %s does not match derived vault %s", cfg.Vault, vault),
		)
	}

	return vault, authority.DerivedProof(cfg.ProgramID, bump, authority.GlobalStateSeed), nil
}

func (s *Service) associatedAccount(owner, assetID authority.Identity) (authority.Identity, error) {
	account, err := authority.AssociatedAccount(s.cfg.Vault.TokenProgram(), owner, assetID)
	if err != nil {
		return "", validationError("invalid token account", err)
	}
	return account, nil
}

// sendTransfer sends req and, while the outcome is unknown, re-sends the same
// request id. The token ledger applies a request id at most once, so a resend
// either returns the original receipt or applies the transfer for the first
// time. Resending outlives the caller's context.
func (s *Service) sendTransfer(ctx context.Context, req *tokenclient.TransferRequest) (*tokenclient.TransferReceipt, error) {
	receipt, err := s.token.Transfer(ctx, req)
	if err == nil || isTransferRejection(err) {
		return receipt, err
	}

	log.Ctx(ctx).Warn().
		Err(err).
		Str("transfer_id", req.ID).
		Msg("Transfer outcome unknown, re-sending the request")

	resolveCtx := context.WithoutCancel(ctx)
	return retry.DoWithData(
		func() (*tokenclient.TransferReceipt, error) {
			return s.token.Transfer(resolveCtx, req)
		},
		retry.Context(resolveCtx),
		retry.Attempts(max(s.cfg.Token.MaxRetryTimes, 1)),
		retry.Delay(s.cfg.Token.RetryInterval),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return !isTransferRejection(err)
		}),
	)
}

func isTransferRejection(err error) bool {
	var transferErr *tokenclient.TransferError
	return errors.As(err, &transferErr)
}

// transferFailure keeps token ledger rejections as they are and marks every
// other failure as the token ledger being unavailable.
func transferFailure(err error) error {
	var transferErr *tokenclient.TransferError
	if errors.As(err, &transferErr) {
		return transferErr
	}
	return types.NewError(http.StatusBadGateway, types.TransferUnavailable, fmt.Errorf("token ledger unavailable: %w", err))
}

func validationError(msg string, err error) *types.Error {
	return types.NewError(http.StatusBadRequest, types.ValidationError, fmt.Errorf("%s: %w", msg, err))
}

func recordOperation(operation string, start time.Time, err *error) {
	metrics.RecordOperationDuration(time.Since(start), operation, *err != nil)
}
