package repository

import (
	"gigaaura/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NotificationRepository struct {
	db   *gorm.DB
	gate *Gate
}

func NewNotificationRepository(db *gorm.DB, gate *Gate) *NotificationRepository {
	return &NotificationRepository{db: db, gate: gate}
}

func (r *NotificationRepository) Save(n *models.Notification) error {
	if r.gate.Degraded() {
		return ErrDegraded
	}
	err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(n).Error
	r.gate.Observe("notification save", err)
	return err
}

func (r *NotificationRepository) ListByRecipient(wallet string, limit, offset int) ([]models.Notification, error) {
	if r.gate.Degraded() {
		return []models.Notification{}, ErrDegraded
	}
	var list []models.Notification
	err := r.db.Where("recipient_wallet = ?", wallet).Order("timestamp DESC").Limit(limit).Offset(offset).Find(&list).Error
	if err != nil {
		r.gate.Observe("notification list", err)
		return []models.Notification{}, err
	}
	return list, nil
}

func (r *NotificationRepository) MarkRead(id, wallet string) error {
	if r.gate.Degraded() {
		return ErrDegraded
	}
	err := r.db.Model(&models.Notification{}).
		Where("id = ? AND recipient_wallet = ?", id, wallet).
		Update("read", true).Error
	r.gate.Observe("notification mark read", err)
	return err
}

func (r *NotificationRepository) MarkAllRead(wallet string) error {
	if r.gate.Degraded() {
		return ErrDegraded
	}
	err := r.db.Model(&models.Notification{}).
		Where("recipient_wallet = ? AND read = ?", wallet, false).
		Update("read", true).Error
	r.gate.Observe("notification mark all read", err)
	return err
}
