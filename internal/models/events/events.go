package events

import "time"

// Topics the engine publishes to after a mutation has committed.
const (
	TopicAccountCreated    = "account_created"
	TopicDepositMade       = "deposit_made"
	TopicWithdrawalMade    = "withdrawal_made"
	TopicTransferCompleted = "transfer_completed"
)

type AccountCreated struct {
	AccountID  uint64    `json:"account_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

type DepositMade struct {
	AccountID  uint64    `json:"account_id"`
	Amount     int64     `json:"amount"`
	NewBalance int64     `json:"new_balance"`
	OccurredAt time.Time `json:"occurred_at"`
}

type WithdrawalMade struct {
	AccountID  uint64    `json:"account_id"`
	Amount     int64     `json:"amount"`
	NewBalance int64     `json:"new_balance"`
	OccurredAt time.Time `json:"occurred_at"`
}

type TransferCompleted struct {
	TransactionID string    `json:"transaction_id"`
	FromAccount   uint64    `json:"from_account"`
	ToAccount     uint64    `json:"to_account"`
	Amount        int64     `json:"amount"`
	OccurredAt    time.Time `json:"occurred_at"`
}
