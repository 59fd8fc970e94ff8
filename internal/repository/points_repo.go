package repository

import (
	"errors"
	"time"

	"gigaaura/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PointsRepository is the remote adapter for aura_points rows. The whole
// transaction history is stored as one JSON blob per wallet, not normalized.
type PointsRepository struct {
	db   *gorm.DB
	gate *Gate
}

func NewPointsRepository(db *gorm.DB, gate *Gate) *PointsRepository {
	return &PointsRepository{db: db, gate: gate}
}

// Get loads the wallet's state, inserting the default-grant row on first
// sighting. ok=false means the remote store could not answer and the returned
// state is the default; the caller must not treat it as authoritative.
func (r *PointsRepository) Get(wallet string) (models.PointsState, bool) {
	if r.gate.Degraded() {
		return models.DefaultPointsState(), false
	}
	var row models.AuraPoints
	err := r.db.First(&row, "wallet_address = ?", wallet).Error
	if err == nil {
		return row.State(), true
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		r.gate.Observe("points get", err)
		return models.DefaultPointsState(), false
	}
	row = models.AuraPoints{
		WalletAddress: wallet,
		Points:        models.DefaultPointsState().TotalPoints,
		Transactions:  models.TransactionList{},
		UpdatedAt:     time.Now(),
	}
	if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
		r.gate.Observe("points seed", err)
		return models.DefaultPointsState(), false
	}
	return row.State(), true
}

// Save upserts the wallet's row. The update is conditional on the stored
// updated_at not being newer than this write, so a lagging writer cannot
// clobber a fresher row; last writer by timestamp wins, not by arrival.
// Returns a success flag, never an error; a write superseded by a fresher
// row reports false since nothing landed.
func (r *PointsRepository) Save(wallet string, state models.PointsState) bool {
	if r.gate.Degraded() {
		return false
	}
	now := time.Now()
	txns := models.TransactionList(state.Transactions)
	if txns == nil {
		txns = models.TransactionList{}
	}
	res := r.db.Model(&models.AuraPoints{}).
		Where("wallet_address = ? AND updated_at <= ?", wallet, now).
		Updates(map[string]interface{}{
			"points":       state.TotalPoints,
			"transactions": txns,
			"updated_at":   now,
		})
	if res.Error != nil {
		r.gate.Observe("points save", res.Error)
		return false
	}
	if res.RowsAffected > 0 {
		return true
	}
	row := models.AuraPoints{
		WalletAddress: wallet,
		Points:        state.TotalPoints,
		Transactions:  txns,
		UpdatedAt:     now,
	}
	ins := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if ins.Error != nil {
		r.gate.Observe("points save", ins.Error)
		return false
	}
	return ins.RowsAffected > 0
}
