package service

import (
	"log"
	"sync"

	"gigaaura/internal/ledger"
	"gigaaura/internal/localstore"
	"gigaaura/internal/models"
)

// PointsSource is the remote read side used during reconciliation.
type PointsSource interface {
	Get(wallet string) (models.PointsState, bool)
}

// SessionService runs the wallet-connect load flow: fast local cache first so
// the caller is never blank, then the remote store asynchronously as the
// authority.
type SessionService struct {
	ledger *ledger.Ledger
	local  *localstore.Store
	remote PointsSource

	loading sync.WaitGroup
}

func NewSessionService(l *ledger.Ledger, local *localstore.Store, remote PointsSource) *SessionService {
	return &SessionService{ledger: l, local: local, remote: remote}
}

// Connect loads the wallet's state. The returned state is the immediate
// (phase-1) view: the local cache when it has anything, otherwise the default
// grant. The remote fetch continues in the background and, when it resolves,
// replaces the in-memory state unconditionally: the store of record wins
// over the cache whenever it is reachable.
func (s *SessionService) Connect(wallet string) models.PointsState {
	first := models.DefaultPointsState()
	if s.local != nil {
		if cached, ok := s.local.ReadPoints(wallet); ok {
			first = cached
		}
	}
	s.ledger.BulkLoad(wallet, first)

	if s.remote != nil {
		s.loading.Add(1)
		go func() {
			defer s.loading.Done()
			state, ok := s.remote.Get(wallet)
			if !ok {
				log.Printf("[session] remote load failed for %s, keeping cached state", wallet)
				return
			}
			s.ledger.BulkLoad(wallet, state)
			if s.local != nil {
				s.local.WritePoints(wallet, state)
			}
		}()
	}
	return first
}

// Disconnect drops the wallet's in-memory state.
func (s *SessionService) Disconnect(wallet string) {
	s.ledger.Disconnect(wallet)
}

// Settle blocks until in-flight remote loads finish. Tests and shutdown use
// it; request paths never do.
func (s *SessionService) Settle() {
	s.loading.Wait()
}
