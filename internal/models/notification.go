package models

import "time"

type Notification struct {
	ID              string    `gorm:"primaryKey;size:64" json:"id"`
	RecipientWallet string    `gorm:"size:64;not null;index" json:"recipientWallet"`
	Type            string    `gorm:"size:32;not null;index" json:"type"`
	Message         string    `gorm:"type:text" json:"message"`
	FromWallet      string    `gorm:"size:64" json:"fromWallet"`
	FromUsername    string    `gorm:"size:64" json:"fromUsername"`
	FromAvatar      string    `gorm:"size:512" json:"fromAvatar"`
	PostID          string    `gorm:"size:64" json:"postId,omitempty"`
	CommentID       string    `gorm:"size:64" json:"commentId,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
	Read            bool      `gorm:"not null;default:false" json:"read"`
	Data            JSONMap   `gorm:"type:text" json:"data"`
}

func (Notification) TableName() string {
	return "notifications"
}
