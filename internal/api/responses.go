package api

import (
	"encoding/json"
	"errors"
	"math/big"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/babylonlabs-io/token-vault-ledger/internal/clients/tokenclient"
	"github.com/babylonlabs-io/token-vault-ledger/internal/db/model"
	"github.com/babylonlabs-io/token-vault-ledger/internal/types"
)

type ErrorResponse struct {
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
}

type GlobalConfigResponse struct {
	Owner              string `json:"owner"`
	AssetID            string `json:"asset_id"`
	Vault              string `json:"vault"`
	VaultAuthority     string `json:"vault_authority"`
	VaultAuthorityBump uint8  `json:"vault_authority_bump"`
	ProgramID          string `json:"program_id"`
	CreatedTime        int64  `json:"created_time"`
}

type UserLedgerResponse struct {
	Owner         string `json:"owner"`
	Amount        uint64 `json:"amount"`
	AmountDisplay string `json:"amount_display"`
	UpdatedTime   int64  `json:"updated_time"`
}

type VaultStatsResponse struct {
	TotalStaked         string `json:"total_staked"`
	TotalStakedDisplay  string `json:"total_staked_display"`
	VaultBalance        uint64 `json:"vault_balance"`
	VaultBalanceDisplay string `json:"vault_balance_display"`
	Depositors          uint64 `json:"depositors"`
	Healthy             bool   `json:"healthy"`
	LastUpdated         int64  `json:"last_updated"`
}

type VaultEventResponse struct {
	ID                     string `json:"id"`
	Type                   string `json:"type"`
	User                   string `json:"user"`
	Amount                 uint64 `json:"amount"`
	AmountDisplay          string `json:"amount_display"`
	UserTotalStaked        uint64 `json:"user_total_staked"`
	UserTotalStakedDisplay string `json:"user_total_staked_display"`
	TotalInVault           uint64 `json:"total_in_vault"`
	TotalInVaultDisplay    string `json:"total_in_vault_display"`
	Timestamp              int64  `json:"timestamp"`
}

// displayAmount renders a raw amount in whole asset units.
func (s *Server) displayAmount(raw uint64) string {
	return shiftDecimals(decimal.NewFromBigInt(new(big.Int).SetUint64(raw), 0), s.cfg.Vault.AssetDecimals)
}

// displayDecimalString renders a raw decimal string amount in whole asset
// units. Unparseable input is returned unchanged.
func (s *Server) displayDecimalString(raw string) string {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return raw
	}
	return shiftDecimals(d, s.cfg.Vault.AssetDecimals)
}

func shiftDecimals(d decimal.Decimal, decimals int32) string {
	return d.Shift(-decimals).StringFixed(decimals)
}

func newGlobalConfigResponse(cfg *model.GlobalConfigDocument) *GlobalConfigResponse {
	return &GlobalConfigResponse{
		Owner:              cfg.Owner.String(),
		AssetID:            cfg.AssetID.String(),
		Vault:              cfg.Vault.String(),
		VaultAuthority:     cfg.VaultAuthority.String(),
		VaultAuthorityBump: cfg.VaultAuthorityBump,
		ProgramID:          cfg.ProgramID.String(),
		CreatedTime:        cfg.CreatedTime,
	}
}

func (s *Server) newUserLedgerResponse(ledger *model.UserLedgerDocument) *UserLedgerResponse {
	return &UserLedgerResponse{
		Owner:         ledger.Owner.String(),
		Amount:        ledger.Amount,
		AmountDisplay: s.displayAmount(ledger.Amount),
		UpdatedTime:   ledger.UpdatedTime,
	}
}

func (s *Server) newVaultStatsResponse(stats *model.VaultStatsDocument) *VaultStatsResponse {
	return &VaultStatsResponse{
		TotalStaked:         stats.TotalStaked,
		TotalStakedDisplay:  s.displayDecimalString(stats.TotalStaked),
		VaultBalance:        stats.VaultBalance,
		VaultBalanceDisplay: s.displayAmount(stats.VaultBalance),
		Depositors:          stats.Depositors,
		Healthy:             stats.Healthy,
		LastUpdated:         stats.LastUpdated,
	}
}

func (s *Server) newVaultEventResponse(ev *types.VaultEvent) *VaultEventResponse {
	return &VaultEventResponse{
		ID:                     ev.ID,
		Type:                   ev.Type.String(),
		User:                   ev.User.String(),
		Amount:                 ev.Amount,
		AmountDisplay:          s.displayAmount(ev.Amount),
		UserTotalStaked:        ev.UserTotalStaked,
		UserTotalStakedDisplay: s.displayAmount(ev.UserTotalStaked),
		TotalInVault:           ev.TotalInVault,
		TotalInVaultDisplay:    s.displayAmount(ev.TotalInVault),
		Timestamp:              ev.Timestamp,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError renders err as an ErrorResponse. Token ledger rejections are
// reported as unprocessable with their own message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var transferErr *tokenclient.TransferError
	if errors.As(err, &transferErr) {
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			ErrorCode: string(types.TransferFailed),
			Message:   transferErr.Error(),
		})
		return
	}

	typed := types.AsError(err)
	message := typed.Err.Error()
	if typed.StatusCode >= http.StatusInternalServerError {
		log.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		if typed.ErrorCode == types.InternalServiceError {
			message = "internal service error"
		}
	}

	writeJSON(w, typed.StatusCode, ErrorResponse{
		ErrorCode: string(typed.ErrorCode),
		Message:   message,
	})
}
