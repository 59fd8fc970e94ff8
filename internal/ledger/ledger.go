// Package ledger owns the canonical in-memory aura state for connected
// wallets. Mutations never fail on the caller path; durability is delegated
// to the persistence adapters asynchronously, best-effort.
package ledger

import (
	"log"
	"sync"

	"gigaaura/internal/models"
)

// LocalStore receives synchronous best-effort writes of the full state.
type LocalStore interface {
	WritePoints(wallet string, state models.PointsState)
}

// RemoteStore receives asynchronous best-effort writes of the full state.
type RemoteStore interface {
	Save(wallet string, state models.PointsState) bool
}

// Notifier is told after a wallet's points changed so other sessions can
// refresh. Publishing must not block.
type Notifier interface {
	PublishPoints(wallet string, state models.PointsState)
}

type walletState struct {
	state   models.PointsState
	applied map[string]struct{} // transaction ids already credited
}

// Ledger holds one PointsState per connected wallet. Adapters are given
// snapshot copies to write; they never see the canonical slices.
type Ledger struct {
	mu     sync.Mutex
	states map[string]*walletState

	local    LocalStore
	remote   RemoteStore
	notifier Notifier

	persisting sync.WaitGroup
}

// New builds a ledger. Any adapter may be nil; a nil adapter is skipped.
func New(local LocalStore, remote RemoteStore, notifier Notifier) *Ledger {
	return &Ledger{
		states:   make(map[string]*walletState),
		local:    local,
		remote:   remote,
		notifier: notifier,
	}
}

// Credit appends txn to the front of the wallet's history and adds its amount
// to the total. A transaction id that was already applied is a silent no-op,
// so at-least-once delivery cannot double-count. The resulting snapshot is
// persisted to both adapters off the caller's path.
func (l *Ledger) Credit(wallet string, txn models.Transaction) models.PointsState {
	l.mu.Lock()
	ws := l.ensure(wallet)
	if txn.ID != "" {
		if _, dup := ws.applied[txn.ID]; dup {
			snap := ws.state.Clone()
			l.mu.Unlock()
			return snap
		}
		ws.applied[txn.ID] = struct{}{}
	}
	ws.state.Transactions = append([]models.Transaction{txn}, ws.state.Transactions...)
	ws.state.TotalPoints += txn.Amount
	snap := ws.state.Clone()
	l.mu.Unlock()

	l.persist(wallet, snap)
	return snap
}

// BulkLoad replaces the wallet's state wholesale; last writer wins. Used when
// a trusted source (the remote store, or a local cache hit on connect) should
// supersede whatever is in memory. Does not trigger persistence: the source
// already holds this state.
func (l *Ledger) BulkLoad(wallet string, state models.PointsState) {
	clean := state.Clone()
	if clean.Transactions == nil {
		clean.Transactions = []models.Transaction{}
	}
	applied := make(map[string]struct{}, len(clean.Transactions))
	for _, t := range clean.Transactions {
		if t.ID != "" {
			applied[t.ID] = struct{}{}
		}
	}
	l.mu.Lock()
	l.states[wallet] = &walletState{state: clean, applied: applied}
	l.mu.Unlock()
}

// LoadIfAbsent loads state only when the wallet has no in-memory state yet,
// so it cannot clobber credits applied since a concurrent load began. Reports
// whether the load happened.
func (l *Ledger) LoadIfAbsent(wallet string, state models.PointsState) bool {
	clean := state.Clone()
	if clean.Transactions == nil {
		clean.Transactions = []models.Transaction{}
	}
	applied := make(map[string]struct{}, len(clean.Transactions))
	for _, t := range clean.Transactions {
		if t.ID != "" {
			applied[t.ID] = struct{}{}
		}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.states[wallet]; ok {
		return false
	}
	l.states[wallet] = &walletState{state: clean, applied: applied}
	return true
}

// Reset puts the wallet back on the default grant with an empty history and
// persists like Credit does.
func (l *Ledger) Reset(wallet string) models.PointsState {
	l.mu.Lock()
	l.states[wallet] = &walletState{
		state:   models.DefaultPointsState(),
		applied: make(map[string]struct{}),
	}
	snap := l.states[wallet].state.Clone()
	l.mu.Unlock()

	l.persist(wallet, snap)
	return snap
}

// SetTotal overrides the total without touching the history. Kept for the
// legacy integer-only restore paths; transaction-bearing sources should go
// through BulkLoad so total and history stay derived from the same data.
func (l *Ledger) SetTotal(wallet string, total int64) models.PointsState {
	l.mu.Lock()
	ws := l.ensure(wallet)
	ws.state.TotalPoints = total
	snap := ws.state.Clone()
	l.mu.Unlock()

	l.persist(wallet, snap)
	return snap
}

// Get returns a snapshot of the wallet's state, creating the default-grant
// state if the wallet has not been seen this session.
func (l *Ledger) Get(wallet string) models.PointsState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ensure(wallet).state.Clone()
}

// Connected reports whether the wallet has in-memory state this session.
func (l *Ledger) Connected(wallet string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.states[wallet]
	return ok
}

// Disconnect drops the wallet's in-memory state. Persisted copies remain.
func (l *Ledger) Disconnect(wallet string) {
	l.mu.Lock()
	delete(l.states, wallet)
	l.mu.Unlock()
}

// Flush blocks until all in-flight persistence writes have finished. Used by
// tests and by graceful shutdown.
func (l *Ledger) Flush() {
	l.persisting.Wait()
}

// ensure returns the wallet's state, seeding the default grant on first
// sighting. Caller must hold l.mu.
func (l *Ledger) ensure(wallet string) *walletState {
	ws, ok := l.states[wallet]
	if !ok {
		ws = &walletState{
			state:   models.DefaultPointsState(),
			applied: make(map[string]struct{}),
		}
		l.states[wallet] = ws
	}
	return ws
}

// persist writes the snapshot to the local store synchronously and to the
// remote store in a goroutine. A failure on either side is logged and
// swallowed: the mutation already succeeded from the caller's point of view.
func (l *Ledger) persist(wallet string, snap models.PointsState) {
	if l.local != nil {
		l.local.WritePoints(wallet, snap)
	}
	if l.remote != nil {
		l.persisting.Add(1)
		go func() {
			defer l.persisting.Done()
			if !l.remote.Save(wallet, snap) {
				log.Printf("[ledger] remote save failed for %s (points=%d), local copy retained", wallet, snap.TotalPoints)
			}
		}()
	}
	if l.notifier != nil {
		l.notifier.PublishPoints(wallet, snap)
	}
}
