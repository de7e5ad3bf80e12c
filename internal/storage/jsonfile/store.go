// Package jsonfile persists accounts as a single JSON document, kept
// compatible with the pre-existing flat-file layout (accounts keyed by
// their number, entries with date/type/amount fields). Every commit is
// atomic: the new document is written to a temp file, fsynced, then
// renamed over the old one, so a reader can never observe a torn write.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/atlasbank/ledger-core/internal/interfaces"
	"github.com/atlasbank/ledger-core/internal/models"
)

const dateLayout = "2006-01-02 15:04:05"

// Store implements interfaces.AccountStore on top of one JSON file.
// The full account table is held in memory; the file is rewritten on
// every mutation and is the source of truth across restarts.
type Store struct {
	path string
	log  *zap.Logger

	mu    sync.Mutex
	accts map[uint64]models.Account
}

// Open loads the store at path. A missing file is an empty store (the
// first-run case); an unreadable or undecodable file is surfaced as
// models.ErrStorePersistence rather than silently treated as empty.
func Open(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{path: path, log: log, accts: make(map[uint64]models.Account)}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		log.Info("no store file yet, starting empty", zap.String("path", path))
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", models.ErrStorePersistence, path, err)
	}

	var raw map[string]persistAccount
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", models.ErrStorePersistence, path, err)
	}
	for key, pa := range raw {
		id, err := models.ParseAccountID(key)
		if err != nil {
			return nil, fmt.Errorf("%w: bad account key %q in %s", models.ErrStorePersistence, key, path)
		}
		s.accts[id] = pa.toAccount(id, log)
	}
	log.Info("store loaded", zap.String("path", path), zap.Int("accounts", len(s.accts)))
	return s, nil
}

func (s *Store) Get(ctx context.Context, id uint64) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accts[id]
	if !ok {
		return models.Account{}, models.ErrAccountNotFound
	}
	return acct.Clone(), nil
}

func (s *Store) Create(ctx context.Context, acct models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accts[acct.ID]; ok {
		return models.ErrDuplicateAccount
	}
	next := s.cloneTable()
	next[acct.ID] = acct.Clone()
	return s.commit(next)
}

func (s *Store) PutAll(ctx context.Context, accounts map[uint64]models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cloneTable()
	for id, acct := range accounts {
		next[id] = acct.Clone()
	}
	return s.commit(next)
}

func (s *Store) cloneTable() map[uint64]models.Account {
	next := make(map[uint64]models.Account, len(s.accts)+1)
	for id, acct := range s.accts {
		next[id] = acct
	}
	return next
}

// commit writes next to disk atomically; the in-memory table only moves
// forward once the rename has succeeded, so a failed write leaves the
// previous committed state in place.
func (s *Store) commit(next map[uint64]models.Account) error {
	raw := make(map[string]persistAccount, len(next))
	for id, acct := range next {
		raw[models.FormatAccountID(id)] = fromAccount(acct)
	}
	data, err := json.MarshalIndent(raw, "", "    ")
	if err != nil {
		return fmt.Errorf("%w: encoding: %v", models.ErrStorePersistence, err)
	}

	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrStorePersistence, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("%w: %v", models.ErrStorePersistence, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("%w: %v", models.ErrStorePersistence, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %v", models.ErrStorePersistence, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("%w: %v", models.ErrStorePersistence, err)
	}

	s.accts = next
	return nil
}

// persistAccount and persistEntry mirror the on-disk layout.
type persistAccount struct {
	Balance int64          `json:"balance"`
	History []persistEntry `json:"transaction_history"`
}

type persistEntry struct {
	ID          string `json:"id,omitempty"`
	Date        string `json:"date"`
	Type        string `json:"type"`
	Amount      int64  `json:"amount"`
	ToAccount   string `json:"to_account,omitempty"`
	FromAccount string `json:"from_account,omitempty"`
}

func fromAccount(acct models.Account) persistAccount {
	pa := persistAccount{
		Balance: acct.Balance,
		History: make([]persistEntry, 0, len(acct.History)),
	}
	for _, tx := range acct.History {
		pe := persistEntry{
			ID:     tx.ID,
			Date:   tx.Timestamp.Format(dateLayout),
			Type:   string(tx.Kind),
			Amount: tx.Amount,
		}
		switch tx.Kind {
		case models.KindTransferOut:
			pe.ToAccount = models.FormatAccountID(tx.Counterparty)
		case models.KindTransferIn:
			pe.FromAccount = models.FormatAccountID(tx.Counterparty)
		}
		pa.History = append(pa.History, pe)
	}
	return pa
}

func (pa persistAccount) toAccount(id uint64, log *zap.Logger) models.Account {
	acct := models.Account{
		ID:      id,
		Balance: pa.Balance,
		History: make([]models.Transaction, 0, len(pa.History)),
	}
	for _, pe := range pa.History {
		tx := models.Transaction{
			ID:     pe.ID,
			Kind:   models.TransactionKind(pe.Type),
			Amount: pe.Amount,
		}
		if ts, err := time.Parse(dateLayout, pe.Date); err == nil {
			tx.Timestamp = ts
		} else {
			log.Warn("unparseable entry date, keeping zero time",
				zap.Uint64("account", id), zap.String("date", pe.Date))
		}
		if pe.ToAccount != "" {
			tx.Counterparty, _ = models.ParseAccountID(pe.ToAccount)
		} else if pe.FromAccount != "" {
			tx.Counterparty, _ = models.ParseAccountID(pe.FromAccount)
		}
		acct.History = append(acct.History, tx)
	}
	return acct
}

var _ interfaces.AccountStore = (*Store)(nil)
