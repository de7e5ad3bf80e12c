package models

// Account represents a single holder of funds: a 10-digit numeric
// identifier, a balance in minor units, and an append-only transaction
// history. Profile data (names, credentials) lives with the auth layer,
// not here.
type Account struct {
	ID      uint64
	Balance int64 // minor units, never negative
	History []Transaction
}

// Clone returns a deep copy so callers can never mutate stored state
// through a returned record.
func (a Account) Clone() Account {
	cp := a
	cp.History = make([]Transaction, len(a.History))
	copy(cp.History, a.History)
	return cp
}
