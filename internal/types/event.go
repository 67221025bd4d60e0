package types

import (
	"github.com/google/uuid"

	"github.com/babylonlabs-io/token-vault-ledger/internal/authority"
)

type EventType string

func (e EventType) String() string {
	return string(e)
}

const (
	EventDeposit  EventType = "vault.v1.DepositEvent"
	EventWithdraw EventType = "vault.v1.WithdrawEvent"
)

// VaultEvent is emitted after a deposit or a withdrawal has been committed.
// UserTotalStaked is the depositor's ledger amount and TotalInVault the vault
// balance, both taken after the operation.
type VaultEvent struct {
	ID              string             `json:"id"`
	Type            EventType          `json:"type"`
	User            authority.Identity `json:"user"`
	Amount          uint64             `json:"amount"`
	UserTotalStaked uint64             `json:"user_total_staked"`
	TotalInVault    uint64             `json:"total_in_vault"`
	Timestamp       int64              `json:"timestamp"`
}

func NewDepositEvent(user authority.Identity, amount, userTotalStaked, totalInVault uint64, timestamp int64) *VaultEvent {
	return newVaultEvent(EventDeposit, user, amount, userTotalStaked, totalInVault, timestamp)
}

func NewWithdrawEvent(user authority.Identity, amount, userTotalStaked, totalInVault uint64, timestamp int64) *VaultEvent {
	return newVaultEvent(EventWithdraw, user, amount, userTotalStaked, totalInVault, timestamp)
}

func newVaultEvent(
	typ EventType,
	user authority.Identity,
	amount, userTotalStaked, totalInVault uint64,
	timestamp int64,
) *VaultEvent {
	return &VaultEvent{
		ID:              uuid.NewString(),
		Type:            typ,
		User:            user,
		Amount:          amount,
		UserTotalStaked: userTotalStaked,
		TotalInVault:    totalInVault,
		Timestamp:       timestamp,
	}
}
