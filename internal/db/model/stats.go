package model

const (
	VaultStatsCollection = "vault_stats"
	VaultStatsID         = "vault_stats"
)

// VaultStatsDocument is the latest invariant snapshot written by the auditor.
// It is derived data and can be rebuilt at any time from user_ledger.
type VaultStatsDocument struct {
	ID           string `bson:"_id"`          // Always "vault_stats"
	TotalStaked  string `bson:"total_staked"` // Decimal string, the sum can exceed uint64
	VaultBalance uint64 `bson:"vault_balance"`
	Depositors   uint64 `bson:"depositors"`
	Healthy      bool   `bson:"healthy"` // TotalStaked <= VaultBalance
	LastUpdated  int64  `bson:"last_updated"`
}
