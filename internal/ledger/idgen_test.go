package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasbank/ledger-core/internal/models"
	"github.com/atlasbank/ledger-core/internal/storage/memory"
)

func TestNextReturnsFreshID(t *testing.T) {
	gen := NewAccountNumberGenerator(memory.New(), 0)

	id, err := gen.Next(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, id, models.AccountIDMin)
	assert.LessOrEqual(t, id, models.AccountIDMax)
}

func TestNextRetriesOnCollision(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	taken := uint64(1_111_111_111)
	free := uint64(2_222_222_222)
	require.NoError(t, store.Create(ctx, models.Account{ID: taken}))

	gen := NewAccountNumberGenerator(store, 5)
	draws := []uint64{taken, taken, free}
	gen.draw = func() (uint64, error) {
		next := draws[0]
		if len(draws) > 1 {
			draws = draws[1:]
		}
		return next, nil
	}

	id, err := gen.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, free, id)
}

func TestNextExhaustsRetries(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	taken := uint64(1_111_111_111)
	require.NoError(t, store.Create(ctx, models.Account{ID: taken}))

	gen := NewAccountNumberGenerator(store, 3)
	calls := 0
	gen.draw = func() (uint64, error) {
		calls++
		return taken, nil
	}

	_, err := gen.Next(ctx)
	assert.ErrorIs(t, err, models.ErrExhaustedRetries)
	assert.Equal(t, 3, calls)
}

func TestDefaultRetryBound(t *testing.T) {
	gen := NewAccountNumberGenerator(memory.New(), -1)
	assert.Equal(t, DefaultIDRetries, gen.maxRetries)
}
