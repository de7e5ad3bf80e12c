package models

import (
	"errors"
	"fmt"
)

// Validation and persistence errors returned by the engine and the
// account stores. Callers match with errors.Is; message text is not part
// of the contract.
var (
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrAmountExceedsLimit = errors.New("amount exceeds the per-operation limit")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrSelfTransfer       = errors.New("cannot transfer to the same account")
	ErrAccountNotFound    = errors.New("account not found")
	ErrDuplicateAccount   = errors.New("account id already exists")
	ErrInvalidAccountID   = errors.New("malformed account id")
	ErrExhaustedRetries   = errors.New("account id generation exhausted retries")
	ErrStorePersistence   = errors.New("store persistence failure")
)

// Transfer-specific not-found errors. Both unwrap to ErrAccountNotFound
// so a caller that does not care which side failed can match the general
// case.
var (
	ErrSourceNotFound      = fmt.Errorf("source: %w", ErrAccountNotFound)
	ErrDestinationNotFound = fmt.Errorf("destination: %w", ErrAccountNotFound)
)
