// Package ledger holds the engine that mutates balances and appends
// history entries. All invariants live here: balances never go negative,
// transfers apply fully or not at all, and every balance change is
// recorded exactly once before the call returns.
package ledger

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atlasbank/ledger-core/internal/interfaces"
	"github.com/atlasbank/ledger-core/internal/models"
	"github.com/atlasbank/ledger-core/internal/models/events"
)

// DefaultMaxAmount is the per-operation ceiling for deposits and
// transfers, in minor units (R70000).
const DefaultMaxAmount int64 = 7_000_000

// Config carries the engine's tunables. Zero values fall back to
// defaults, so ledger.NewEngine(store, ledger.Config{}) is a working
// engine.
type Config struct {
	// MaxAmount caps a single deposit or transfer, in minor units.
	// Withdrawals carry no ceiling, matching the established behavior.
	MaxAmount int64
	// IDRetries bounds account-number generation collision retries.
	IDRetries int
	// Publisher receives post-commit events; nil disables publishing.
	Publisher interfaces.EventPublisher
	Logger    *zap.Logger
}

// Engine validates and applies operations against an AccountStore. It is
// stateless between calls apart from the per-account lock table; every
// operation is one atomic transition of store state.
type Engine struct {
	store     interfaces.AccountStore
	ids       *AccountNumberGenerator
	pub       interfaces.EventPublisher
	log       *zap.Logger
	maxAmount int64

	mapMu sync.Mutex
	muMap map[uint64]*sync.Mutex
}

func NewEngine(store interfaces.AccountStore, cfg Config) *Engine {
	if cfg.MaxAmount <= 0 {
		cfg.MaxAmount = DefaultMaxAmount
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Engine{
		store:     store,
		ids:       NewAccountNumberGenerator(store, cfg.IDRetries),
		pub:       cfg.Publisher,
		log:       cfg.Logger,
		maxAmount: cfg.MaxAmount,
		muMap:     make(map[uint64]*sync.Mutex),
	}
}

// accountLock returns the mutex guarding one account's
// read-validate-mutate-persist sequence, creating it on first use.
func (e *Engine) accountLock(id uint64) *sync.Mutex {
	e.mapMu.Lock()
	defer e.mapMu.Unlock()

	mu, ok := e.muMap[id]
	if !ok {
		mu = &sync.Mutex{}
		e.muMap[id] = mu
	}
	return mu
}

// CreateAccount registers a new account with a fresh 10-digit number,
// zero balance and empty history, and returns its id.
func (e *Engine) CreateAccount(ctx context.Context) (uint64, error) {
	for attempt := 0; attempt < e.ids.maxRetries; attempt++ {
		id, err := e.ids.Next(ctx)
		if err != nil {
			return 0, err
		}
		err = e.store.Create(ctx, models.Account{ID: id})
		if errors.Is(err, models.ErrDuplicateAccount) {
			// lost a race for this number between the existence check
			// and the insert; draw again within the retry budget
			continue
		}
		if err != nil {
			return 0, err
		}
		e.log.Info("account created", zap.Uint64("account", id))
		e.publish(ctx, events.TopicAccountCreated, events.AccountCreated{
			AccountID:  id,
			OccurredAt: time.Now(),
		})
		return id, nil
	}
	return 0, models.ErrExhaustedRetries
}

// Deposit credits amount to the account and records a Deposit entry.
// Returns the new balance.
func (e *Engine) Deposit(ctx context.Context, id uint64, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, models.ErrInvalidAmount
	}
	if amount > e.maxAmount {
		return 0, models.ErrAmountExceedsLimit
	}

	mu := e.accountLock(id)
	mu.Lock()
	defer mu.Unlock()

	acct, err := e.store.Get(ctx, id)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	acct.Balance += amount
	acct.History = append(acct.History, models.Transaction{
		ID:        uuid.NewString(),
		Timestamp: now,
		Kind:      models.KindDeposit,
		Amount:    amount,
	})

	if err := e.store.PutAll(ctx, map[uint64]models.Account{id: acct}); err != nil {
		return 0, err
	}

	e.log.Info("deposit applied",
		zap.Uint64("account", id), zap.Int64("amount", amount), zap.Int64("balance", acct.Balance))
	e.publish(ctx, events.TopicDepositMade, events.DepositMade{
		AccountID:  id,
		Amount:     amount,
		NewBalance: acct.Balance,
		OccurredAt: now,
	})
	return acct.Balance, nil
}

// Withdraw debits amount from the account and records a Withdraw entry.
// Returns the new balance. Unlike Deposit there is no ceiling, but the
// positivity check is enforced the same way.
func (e *Engine) Withdraw(ctx context.Context, id uint64, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, models.ErrInvalidAmount
	}

	mu := e.accountLock(id)
	mu.Lock()
	defer mu.Unlock()

	acct, err := e.store.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	if acct.Balance < amount {
		return 0, models.ErrInsufficientFunds
	}

	now := time.Now()
	acct.Balance -= amount
	acct.History = append(acct.History, models.Transaction{
		ID:        uuid.NewString(),
		Timestamp: now,
		Kind:      models.KindWithdrawal,
		Amount:    amount,
	})

	if err := e.store.PutAll(ctx, map[uint64]models.Account{id: acct}); err != nil {
		return 0, err
	}

	e.log.Info("withdrawal applied",
		zap.Uint64("account", id), zap.Int64("amount", amount), zap.Int64("balance", acct.Balance))
	e.publish(ctx, events.TopicWithdrawalMade, events.WithdrawalMade{
		AccountID:  id,
		Amount:     amount,
		NewBalance: acct.Balance,
		OccurredAt: now,
	})
	return acct.Balance, nil
}

// Transfer moves amount from one account to another. On success the
// source gains a Transfer Out entry and the destination a Transfer In
// entry with the same amount, committed together; on any failure neither
// account changes. Checks run in a fixed order and stop at the first
// failure: amount, ceiling, self-transfer, source, destination, funds.
func (e *Engine) Transfer(ctx context.Context, from, to uint64, amount int64) error {
	if amount <= 0 {
		return models.ErrInvalidAmount
	}
	if amount > e.maxAmount {
		return models.ErrAmountExceedsLimit
	}
	if from == to {
		return models.ErrSelfTransfer
	}

	// Both locks are taken in ascending id order so two transfers moving
	// funds in opposite directions cannot deadlock.
	first, second := from, to
	if second < first {
		first, second = second, first
	}
	firstMu, secondMu := e.accountLock(first), e.accountLock(second)
	firstMu.Lock()
	defer firstMu.Unlock()
	secondMu.Lock()
	defer secondMu.Unlock()

	src, err := e.store.Get(ctx, from)
	if errors.Is(err, models.ErrAccountNotFound) {
		return models.ErrSourceNotFound
	}
	if err != nil {
		return err
	}
	dst, err := e.store.Get(ctx, to)
	if errors.Is(err, models.ErrAccountNotFound) {
		return models.ErrDestinationNotFound
	}
	if err != nil {
		return err
	}
	if src.Balance < amount {
		return models.ErrInsufficientFunds
	}

	now := time.Now()
	txID := uuid.NewString()
	src.Balance -= amount
	dst.Balance += amount
	src.History = append(src.History, models.Transaction{
		ID:           txID + "-out",
		Timestamp:    now,
		Kind:         models.KindTransferOut,
		Amount:       amount,
		Counterparty: to,
	})
	dst.History = append(dst.History, models.Transaction{
		ID:           txID + "-in",
		Timestamp:    now,
		Kind:         models.KindTransferIn,
		Amount:       amount,
		Counterparty: from,
	})

	if err := e.store.PutAll(ctx, map[uint64]models.Account{from: src, to: dst}); err != nil {
		return err
	}

	e.log.Info("transfer applied",
		zap.Uint64("from", from), zap.Uint64("to", to), zap.Int64("amount", amount))
	e.publish(ctx, events.TopicTransferCompleted, events.TransferCompleted{
		TransactionID: txID,
		FromAccount:   from,
		ToAccount:     to,
		Amount:        amount,
		OccurredAt:    now,
	})
	return nil
}

// GetBalance returns the account's committed balance.
func (e *Engine) GetBalance(ctx context.Context, id uint64) (int64, error) {
	acct, err := e.store.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	return acct.Balance, nil
}

// GetHistory returns the account's transactions in insertion order.
// Entries with a non-positive amount can only come from store
// corruption; they are dropped from the result with a warning instead of
// failing the whole read.
func (e *Engine) GetHistory(ctx context.Context, id uint64) ([]models.Transaction, error) {
	acct, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	out := make([]models.Transaction, 0, len(acct.History))
	for _, tx := range acct.History {
		if tx.Amount <= 0 {
			e.log.Warn("dropping corrupt history entry",
				zap.Uint64("account", id), zap.String("kind", string(tx.Kind)),
				zap.Int64("amount", tx.Amount))
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

func (e *Engine) publish(ctx context.Context, topic string, event any) {
	if e.pub == nil {
		return
	}
	if err := e.pub.Publish(ctx, topic, event); err != nil {
		e.log.Warn("event publish failed", zap.String("topic", topic), zap.Error(err))
	}
}
