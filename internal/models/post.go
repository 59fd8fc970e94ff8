package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// Comment lives inside the post's comments JSON column, not in its own table.
type Comment struct {
	ID           string `json:"id"`
	Content      string `json:"content"`
	AuthorWallet string `json:"authorWallet"`
	AuthorName   string `json:"authorName,omitempty"`
	CreatedAt    string `json:"createdAt"` // ISO-8601
}

type CommentList []Comment

func (l CommentList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *CommentList) Scan(src interface{}) error {
	return scanJSON(src, l)
}

type Post struct {
	ID           string      `gorm:"primaryKey;size:64" json:"id"`
	Content      string      `gorm:"type:text" json:"content"`
	AuthorWallet string      `gorm:"size:64;not null;index" json:"authorWallet"`
	AuthorName   string      `gorm:"size:64" json:"authorName"`
	CreatedAt    time.Time   `json:"createdAt"`
	Likes        int         `gorm:"not null;default:0" json:"likes"`
	LikedBy      StringList  `gorm:"type:text" json:"likedBy"`
	Shares       int         `gorm:"not null;default:0" json:"shares"`
	SharedBy     StringList  `gorm:"type:text" json:"sharedBy"`
	Comments     CommentList `gorm:"type:text" json:"comments"`
	BookmarkedBy StringList  `gorm:"type:text" json:"bookmarkedBy"`
	Data         JSONMap     `gorm:"type:text" json:"data"` // media URLs, client extras
}

func (Post) TableName() string {
	return "posts"
}
