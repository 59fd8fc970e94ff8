package models

import "time"

// User is a wallet-keyed profile. Follows are modeled as JSON lists on the
// row, mirroring the feed's read pattern (whole profile in one fetch).
type User struct {
	WalletAddress string     `gorm:"primaryKey;size:64" json:"walletAddress"`
	Username      string     `gorm:"size:64" json:"username"`
	Avatar        string     `gorm:"size:512" json:"avatar"`
	Bio           string     `gorm:"type:text" json:"bio"`
	BannerImage   string     `gorm:"size:512" json:"bannerImage"`
	Following     StringList `gorm:"type:text" json:"following"`
	Followers     StringList `gorm:"type:text" json:"followers"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

// DisplayName returns the username, falling back to a shortened address.
func (u User) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	if len(u.WalletAddress) > 8 {
		return u.WalletAddress[:4] + "..." + u.WalletAddress[len(u.WalletAddress)-4:]
	}
	return u.WalletAddress
}
