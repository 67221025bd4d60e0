package model

import "github.com/babylonlabs-io/token-vault-ledger/internal/authority"

const UserLedgerCollection = "user_ledger"

// UserLedgerDocument tracks the balance of a single depositor. It is created
// by the first deposit and never removed, even once Amount is back to zero.
type UserLedgerDocument struct {
	Owner       authority.Identity `bson:"_id"`
	Amount      uint64             `bson:"amount"`
	UpdatedTime int64              `bson:"updated_time"`
}

// ZeroUserLedger is how a depositor without a ledger entry is reported.
func ZeroUserLedger(owner authority.Identity) *UserLedgerDocument {
	return &UserLedgerDocument{Owner: owner}
}
