package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasbank/ledger-core/internal/models"
)

func TestCreateGetPutAll(t *testing.T) {
	ctx := context.Background()
	store := New()

	_, err := store.Get(ctx, 1_234_567_890)
	assert.ErrorIs(t, err, models.ErrAccountNotFound)

	acct := models.Account{ID: 1_234_567_890, Balance: 100}
	require.NoError(t, store.Create(ctx, acct))
	assert.ErrorIs(t, store.Create(ctx, acct), models.ErrDuplicateAccount)

	acct.Balance = 250
	require.NoError(t, store.PutAll(ctx, map[uint64]models.Account{acct.ID: acct}))

	got, err := store.Get(ctx, acct.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(250), got.Balance)
}

func TestGetReturnsIndependentCopy(t *testing.T) {
	ctx := context.Background()
	store := New()
	require.NoError(t, store.Create(ctx, models.Account{
		ID:      1_234_567_890,
		Balance: 100,
		History: []models.Transaction{{ID: "tx-1", Kind: models.KindDeposit, Amount: 100}},
	}))

	got, err := store.Get(ctx, 1_234_567_890)
	require.NoError(t, err)
	got.Balance = 0
	got.History[0].Amount = -1

	again, err := store.Get(ctx, 1_234_567_890)
	require.NoError(t, err)
	assert.Equal(t, int64(100), again.Balance)
	assert.Equal(t, int64(100), again.History[0].Amount)
}
