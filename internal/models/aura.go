package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"gigaaura/internal/domain"
)

// Transaction is one entry in a wallet's aura history. The id is unique within
// a wallet's history; the timestamp is assigned at creation and never mutated.
type Transaction struct {
	ID                 string `json:"id"`
	Amount             int64  `json:"amount"` // signed delta, negative allowed for corrections
	Action             string `json:"action"`
	Timestamp          string `json:"timestamp"` // ISO-8601
	CounterpartyName   string `json:"counterpartyName,omitempty"`
	CounterpartyWallet string `json:"counterpartyWallet,omitempty"`
}

// NewTimestamp returns the ISO-8601 creation time for a transaction.
func NewTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// TransactionList stores the history as a JSON blob (not normalized into rows).
type TransactionList []Transaction

func (l TransactionList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *TransactionList) Scan(src interface{}) error {
	return scanJSON(src, l)
}

// PointsState is a wallet's aura balance plus its full transaction history,
// newest first. TotalPoints must equal DefaultGrant plus the sum of amounts
// for any state built purely from credits.
type PointsState struct {
	TotalPoints  int64         `json:"totalPoints"`
	Transactions []Transaction `json:"transactions"`
}

// DefaultPointsState is the state for a wallet never seen by any store.
func DefaultPointsState() PointsState {
	return PointsState{TotalPoints: domain.DefaultGrant, Transactions: []Transaction{}}
}

// Sum returns the sum of transaction amounts.
func (s PointsState) Sum() int64 {
	var n int64
	for _, t := range s.Transactions {
		n += t.Amount
	}
	return n
}

// Clone returns a deep copy so callers can never alias the canonical slices.
func (s PointsState) Clone() PointsState {
	out := PointsState{TotalPoints: s.TotalPoints, Transactions: make([]Transaction, len(s.Transactions))}
	copy(out.Transactions, s.Transactions)
	return out
}

// AuraPoints is the remote-store row for a wallet, keyed by address.
type AuraPoints struct {
	WalletAddress string          `gorm:"primaryKey;size:64" json:"wallet_address"`
	Points        int64           `gorm:"not null;default:0" json:"points"`
	Transactions  TransactionList `gorm:"type:text" json:"transactions"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (AuraPoints) TableName() string {
	return "aura_points"
}

// State converts the row into the in-memory representation.
func (a AuraPoints) State() PointsState {
	txns := a.Transactions
	if txns == nil {
		txns = TransactionList{}
	}
	return PointsState{TotalPoints: a.Points, Transactions: txns}
}
