package models

import "time"

// TransactionKind enumerates the balance-affecting events an account can
// record. The string values are the persisted form and match the
// existing store files.
type TransactionKind string

const (
	KindDeposit     TransactionKind = "Deposit"
	KindWithdrawal  TransactionKind = "Withdraw"
	KindTransferOut TransactionKind = "Transfer Out"
	KindTransferIn  TransactionKind = "Transfer In"
)

// Transaction is an immutable record of one balance-affecting event.
// Amount is always positive; the direction is carried by Kind.
// Counterparty is set only on transfer legs and names the other account.
type Transaction struct {
	ID           string
	Timestamp    time.Time
	Kind         TransactionKind
	Amount       int64 // minor units, > 0
	Counterparty uint64
}
