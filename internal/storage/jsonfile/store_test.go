package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/atlasbank/ledger-core/internal/models"
)

func testAccount() models.Account {
	return models.Account{
		ID:      1_234_567_890,
		Balance: 50_000,
		History: []models.Transaction{
			{
				ID:        "tx-1",
				Timestamp: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
				Kind:      models.KindDeposit,
				Amount:    50_000,
			},
			{
				ID:           "tx-2-out",
				Timestamp:    time.Date(2024, 3, 2, 9, 30, 0, 0, time.UTC),
				Kind:         models.KindTransferOut,
				Amount:       1_000,
				Counterparty: 9_876_543_210,
			},
		},
	}
}

func TestOpenMissingFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts.json")
	store, err := Open(path, zaptest.NewLogger(t))
	require.NoError(t, err)

	_, err = store.Get(context.Background(), 1_234_567_890)
	assert.ErrorIs(t, err, models.ErrAccountNotFound)
}

func TestCreatePersistsAndSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "accounts.json")
	store, err := Open(path, zaptest.NewLogger(t))
	require.NoError(t, err)

	acct := testAccount()
	require.NoError(t, store.Create(ctx, acct))

	// no temp file may linger after a successful commit
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	reopened, err := Open(path, zaptest.NewLogger(t))
	require.NoError(t, err)
	got, err := reopened.Get(ctx, acct.ID)
	require.NoError(t, err)
	assert.Equal(t, acct.Balance, got.Balance)
	require.Len(t, got.History, 2)
	assert.Equal(t, models.KindDeposit, got.History[0].Kind)
	assert.Equal(t, models.KindTransferOut, got.History[1].Kind)
	assert.Equal(t, uint64(9_876_543_210), got.History[1].Counterparty)
	assert.True(t, got.History[0].Timestamp.Equal(acct.History[0].Timestamp))
}

func TestCreateDuplicate(t *testing.T) {
	ctx := context.Background()
	store, err := Open(filepath.Join(t.TempDir(), "accounts.json"), zaptest.NewLogger(t))
	require.NoError(t, err)

	require.NoError(t, store.Create(ctx, testAccount()))
	assert.ErrorIs(t, store.Create(ctx, testAccount()), models.ErrDuplicateAccount)
}

func TestPutAllCommitsBatchAtomically(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "accounts.json")
	store, err := Open(path, zaptest.NewLogger(t))
	require.NoError(t, err)

	a := models.Account{ID: 1_111_111_111, Balance: 300}
	b := models.Account{ID: 2_222_222_222, Balance: 200}
	require.NoError(t, store.Create(ctx, a))
	require.NoError(t, store.Create(ctx, b))

	a.Balance = 100
	b.Balance = 400
	require.NoError(t, store.PutAll(ctx, map[uint64]models.Account{a.ID: a, b.ID: b}))

	reopened, err := Open(path, zaptest.NewLogger(t))
	require.NoError(t, err)
	gotA, err := reopened.Get(ctx, a.ID)
	require.NoError(t, err)
	gotB, err := reopened.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), gotA.Balance)
	assert.Equal(t, int64(400), gotB.Balance)
}

func TestOpenCorruptFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Open(path, zaptest.NewLogger(t))
	assert.ErrorIs(t, err, models.ErrStorePersistence)
}

func TestOpenRejectsBadAccountKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts.json")
	require.NoError(t, os.WriteFile(path,
		[]byte(`{"not-a-number": {"balance": 0, "transaction_history": []}}`), 0o644))

	_, err := Open(path, zaptest.NewLogger(t))
	assert.ErrorIs(t, err, models.ErrStorePersistence)
}

func TestGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store, err := Open(filepath.Join(t.TempDir(), "accounts.json"), zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NoError(t, store.Create(ctx, testAccount()))

	got, err := store.Get(ctx, 1_234_567_890)
	require.NoError(t, err)
	got.Balance = 0
	got.History[0].Amount = -1

	again, err := store.Get(ctx, 1_234_567_890)
	require.NoError(t, err)
	assert.Equal(t, int64(50_000), again.Balance)
	assert.Equal(t, int64(50_000), again.History[0].Amount)
}
