package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/atlasbank/ledger-core/internal/interfaces"
	"github.com/atlasbank/ledger-core/internal/models"
)

// Store implements interfaces.AccountStore on PostgreSQL via lib/pq.
// Balances live in accounts; history entries live in
// account_transactions, ordered by an insertion sequence.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the tables if they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS accounts (
		id      BIGINT PRIMARY KEY,
		balance BIGINT NOT NULL DEFAULT 0
	);
	CREATE TABLE IF NOT EXISTS account_transactions (
		pos          BIGSERIAL PRIMARY KEY,
		id           TEXT NOT NULL,
		account_id   BIGINT NOT NULL REFERENCES accounts (id),
		kind         TEXT NOT NULL,
		amount       BIGINT NOT NULL,
		counterparty BIGINT,
		created_at   TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS account_transactions_account_idx
		ON account_transactions (account_id, pos);`

	_, err := s.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrStorePersistence, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id uint64) (models.Account, error) {
	acct := models.Account{ID: id}

	err := s.db.QueryRowContext(ctx,
		`SELECT balance FROM accounts WHERE id = $1`, int64(id),
	).Scan(&acct.Balance)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Account{}, models.ErrAccountNotFound
	}
	if err != nil {
		return models.Account{}, fmt.Errorf("%w: %v", models.ErrStorePersistence, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, amount, counterparty, created_at
		 FROM account_transactions
		 WHERE account_id = $1
		 ORDER BY pos`, int64(id))
	if err != nil {
		return models.Account{}, fmt.Errorf("%w: %v", models.ErrStorePersistence, err)
	}
	defer rows.Close()

	for rows.Next() {
		var tx models.Transaction
		var kind string
		var counterparty sql.NullInt64
		if err := rows.Scan(&tx.ID, &kind, &tx.Amount, &counterparty, &tx.Timestamp); err != nil {
			return models.Account{}, fmt.Errorf("%w: %v", models.ErrStorePersistence, err)
		}
		tx.Kind = models.TransactionKind(kind)
		if counterparty.Valid {
			tx.Counterparty = uint64(counterparty.Int64)
		}
		acct.History = append(acct.History, tx)
	}
	if err := rows.Err(); err != nil {
		return models.Account{}, fmt.Errorf("%w: %v", models.ErrStorePersistence, err)
	}
	return acct, nil
}

func (s *Store) Create(ctx context.Context, acct models.Account) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (id, balance) VALUES ($1, $2)`,
		int64(acct.ID), acct.Balance)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return models.ErrDuplicateAccount
	}
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrStorePersistence, err)
	}
	return nil
}

// PutAll commits the whole batch in one database transaction. History is
// append-only, so only the suffix beyond what is already persisted gets
// inserted.
func (s *Store) PutAll(ctx context.Context, accounts map[uint64]models.Account) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrStorePersistence, err)
	}
	defer func() {
		if err != nil {
			dbTx.Rollback()
		}
	}()

	for id, acct := range accounts {
		if err = s.putOne(ctx, dbTx, id, acct); err != nil {
			return err
		}
	}

	if err = dbTx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", models.ErrStorePersistence, err)
	}
	return nil
}

func (s *Store) putOne(ctx context.Context, dbTx *sql.Tx, id uint64, acct models.Account) error {
	_, err := dbTx.ExecContext(ctx,
		`INSERT INTO accounts (id, balance) VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET balance = EXCLUDED.balance`,
		int64(id), acct.Balance)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrStorePersistence, err)
	}

	var persisted int
	err = dbTx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM account_transactions WHERE account_id = $1`,
		int64(id)).Scan(&persisted)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrStorePersistence, err)
	}

	if persisted > len(acct.History) {
		return fmt.Errorf("%w: account %d has %d persisted entries but record holds %d",
			models.ErrStorePersistence, id, persisted, len(acct.History))
	}

	for _, tx := range acct.History[persisted:] {
		var counterparty sql.NullInt64
		if tx.Kind == models.KindTransferOut || tx.Kind == models.KindTransferIn {
			counterparty = sql.NullInt64{Int64: int64(tx.Counterparty), Valid: true}
		}
		_, err = dbTx.ExecContext(ctx,
			`INSERT INTO account_transactions (id, account_id, kind, amount, counterparty, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			tx.ID, int64(id), string(tx.Kind), tx.Amount, counterparty, tx.Timestamp)
		if err != nil {
			return fmt.Errorf("%w: %v", models.ErrStorePersistence, err)
		}
	}
	return nil
}

var _ interfaces.AccountStore = (*Store)(nil)
