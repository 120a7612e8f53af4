package txn

import "fmt"

// ErrTransactionInProgress is returned when a session already owns an
// open transaction and Begin is called again without Commit/Rollback.
type ErrTransactionInProgress struct{ Owner string }

func (e *ErrTransactionInProgress) Error() string {
	return fmt.Sprintf("txn: session %q already has a transaction in progress", e.Owner)
}

// ErrNoTransaction is returned when Commit/Rollback is called on a
// session with no open transaction.
type ErrNoTransaction struct{ Owner string }

func (e *ErrNoTransaction) Error() string {
	return fmt.Sprintf("txn: session %q has no transaction in progress", e.Owner)
}

// ErrWrongOwner is returned when a caller presents a different owner
// token than the one that opened the session's active transaction.
type ErrWrongOwner struct {
	Owner, Caller string
}

func (e *ErrWrongOwner) Error() string {
	return fmt.Sprintf("txn: transaction owned by %q, not %q", e.Owner, e.Caller)
}

// Session enforces the single-writer rule: at most one transaction may
// be open at a time, and only its owner may commit, roll it back, or
// issue writes through it. This mirrors spec's concurrency model
// (single-writer ACID-style transactions) without needing a lock —
// Begin simply refuses a second concurrent transaction.
type Session struct {
	source TableSource
	nextID uint64
	active *Transaction
}

// NewSession creates a session reading through source.
func NewSession(source TableSource) *Session {
	return &Session{source: source}
}

// Begin opens a new transaction owned by owner. It fails if one is
// already in progress.
func (s *Session) Begin(owner string) (*Transaction, error) {
	if s.active != nil {
		return nil, &ErrTransactionInProgress{Owner: s.active.Owner}
	}
	s.nextID++
	s.active = New(s.nextID, owner, s.source)
	return s.active, nil
}

// Active returns the session's open transaction, if any.
func (s *Session) Active() (*Transaction, bool) {
	return s.active, s.active != nil
}

// Commit commits the session's active transaction, verifying caller
// matches its owner, and clears it whether it succeeds or fails (a
// failed commit must not be retried — the caller starts a fresh
// transaction per the spec's abort policy).
func (s *Session) Commit(caller string) error {
	if s.active == nil {
		return &ErrNoTransaction{Owner: caller}
	}
	if s.active.Owner != caller {
		return &ErrWrongOwner{Owner: s.active.Owner, Caller: caller}
	}
	tx := s.active
	s.active = nil
	return tx.Commit()
}

// Rollback discards the session's active transaction.
func (s *Session) Rollback(caller string) error {
	if s.active == nil {
		return &ErrNoTransaction{Owner: caller}
	}
	if s.active.Owner != caller {
		return &ErrWrongOwner{Owner: s.active.Owner, Caller: caller}
	}
	s.active.Rollback()
	s.active = nil
	return nil
}
