package service

import (
	"errors"
	"time"

	"gigaaura/internal/domain"
	"gigaaura/internal/ledger"
	"gigaaura/internal/models"

	"github.com/google/uuid"
)

var (
	ErrUnknownAction = errors.New("unknown aura action")
	ErrZeroAmount    = errors.New("transaction amount required")
)

// AuraService turns feed events into ledger credits.
type AuraService struct {
	ledger *ledger.Ledger
	remote PointsSource
}

func NewAuraService(l *ledger.Ledger, remote PointsSource) *AuraService {
	return &AuraService{ledger: l, remote: remote}
}

// hydrate pulls the stored state for a wallet with no in-memory state, so a
// credit lands on top of the persisted history instead of a fresh default
// grant. Without this, the first credit after a restart would persist a
// default-based snapshot over the authoritative row.
func (s *AuraService) hydrate(wallet string) {
	if s.remote == nil || s.ledger.Connected(wallet) {
		return
	}
	if state, ok := s.remote.Get(wallet); ok {
		s.ledger.LoadIfAbsent(wallet, state)
	}
}

// Award credits the schedule amount for an action, with optional counterparty
// display metadata. The ledger mutation cannot fail; unknown actions are the
// only rejection.
func (s *AuraService) Award(wallet, action, counterpartyName, counterpartyWallet string) (models.Transaction, error) {
	amount, ok := domain.PointSchedule[action]
	if !ok {
		return models.Transaction{}, ErrUnknownAction
	}
	txn := models.Transaction{
		ID:                 uuid.NewString(),
		Amount:             amount,
		Action:             action,
		Timestamp:          models.NewTimestamp(time.Now()),
		CounterpartyName:   counterpartyName,
		CounterpartyWallet: counterpartyWallet,
	}
	s.hydrate(wallet)
	s.ledger.Credit(wallet, txn)
	return txn, nil
}

// Credit applies a caller-built transaction (the POST /api/transactions
// path). Missing id/timestamp are filled in; a zero amount falls back to the
// schedule for the action.
func (s *AuraService) Credit(wallet string, txn models.Transaction) (models.Transaction, error) {
	if !domain.ValidAction(txn.Action) {
		return models.Transaction{}, ErrUnknownAction
	}
	if txn.Amount == 0 {
		txn.Amount = domain.PointSchedule[txn.Action]
	}
	if txn.Amount == 0 {
		return models.Transaction{}, ErrZeroAmount
	}
	if txn.ID == "" {
		txn.ID = uuid.NewString()
	}
	if txn.Timestamp == "" {
		txn.Timestamp = models.NewTimestamp(time.Now())
	}
	s.hydrate(wallet)
	s.ledger.Credit(wallet, txn)
	return txn, nil
}

// State returns the wallet's current snapshot.
func (s *AuraService) State(wallet string) models.PointsState {
	return s.ledger.Get(wallet)
}

// Reset puts the wallet back on the default grant.
func (s *AuraService) Reset(wallet string) models.PointsState {
	return s.ledger.Reset(wallet)
}
