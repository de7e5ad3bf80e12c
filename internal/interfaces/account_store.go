package interfaces

import (
	"context"

	"github.com/atlasbank/ledger-core/internal/models"
)

// AccountStore is the durable keyed persistence layer for account
// records. Implementations must make every mutation durable before
// returning and must never expose a partially written batch to readers.
type AccountStore interface {
	// Get returns the current state of one account, or
	// models.ErrAccountNotFound.
	Get(ctx context.Context, id uint64) (models.Account, error)

	// Create inserts a brand-new record, failing with
	// models.ErrDuplicateAccount if the id is already taken.
	Create(ctx context.Context, acct models.Account) error

	// PutAll persists the given records as one atomic commit: either
	// every record in the batch becomes visible and durable, or none of
	// them do.
	PutAll(ctx context.Context, accounts map[uint64]models.Account) error
}
