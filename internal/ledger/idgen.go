package ledger

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/atlasbank/ledger-core/internal/interfaces"
	"github.com/atlasbank/ledger-core/internal/models"
)

// DefaultIDRetries bounds how many colliding draws the generator
// tolerates before giving up. A collision at realistic account counts is
// astronomically unlikely, so hitting the bound signals store corruption
// or near-exhaustion of the id space.
const DefaultIDRetries = 10

// AccountNumberGenerator draws uniform random 10-digit account numbers
// and checks them against the store until it finds a free one.
type AccountNumberGenerator struct {
	store      interfaces.AccountStore
	maxRetries int
	draw       func() (uint64, error)
}

func NewAccountNumberGenerator(store interfaces.AccountStore, maxRetries int) *AccountNumberGenerator {
	if maxRetries <= 0 {
		maxRetries = DefaultIDRetries
	}
	return &AccountNumberGenerator{
		store:      store,
		maxRetries: maxRetries,
		draw:       randomAccountID,
	}
}

// Next returns a 10-digit account number not currently present in the
// store, or models.ErrExhaustedRetries after maxRetries collisions.
func (g *AccountNumberGenerator) Next(ctx context.Context) (uint64, error) {
	for attempt := 0; attempt < g.maxRetries; attempt++ {
		id, err := g.draw()
		if err != nil {
			return 0, err
		}
		_, err = g.store.Get(ctx, id)
		if errors.Is(err, models.ErrAccountNotFound) {
			return id, nil
		}
		if err != nil {
			return 0, err
		}
		// id is taken, draw again
	}
	return 0, models.ErrExhaustedRetries
}

func randomAccountID() (uint64, error) {
	span := big.NewInt(int64(models.AccountIDMax - models.AccountIDMin + 1))
	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return 0, fmt.Errorf("drawing account id: %w", err)
	}
	return models.AccountIDMin + n.Uint64(), nil
}
