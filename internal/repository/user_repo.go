package repository

import (
	"errors"

	"gigaaura/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	db   *gorm.DB
	gate *Gate
}

func NewUserRepository(db *gorm.DB, gate *Gate) *UserRepository {
	return &UserRepository{db: db, gate: gate}
}

// Get returns the profile row, or nil without error when the wallet has no
// profile yet.
func (r *UserRepository) Get(wallet string) (*models.User, error) {
	if r.gate.Degraded() {
		return nil, ErrDegraded
	}
	var u models.User
	err := r.db.First(&u, "wallet_address = ?", wallet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		r.gate.Observe("user get", err)
		return nil, err
	}
	return &u, nil
}

// Upsert writes the profile by primary key.
func (r *UserRepository) Upsert(u *models.User) error {
	if r.gate.Degraded() {
		return ErrDegraded
	}
	err := r.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(u).Error
	r.gate.Observe("user upsert", err)
	return err
}
