package entity

import "database/sql"

type User struct {
	Base
	Name           string         `gorm:"unique"`
	Email          sql.NullString `gorm:"unique"`
	HashedPassword string
	WalletAddress  sql.NullString `gorm:"unique"`
	WalletNonce    string
	AvatarURL      string
	Bio            string
	Role           string `gorm:"default:USER"`
}

const (
	AdminRole = "ADMIN"
	UserRole  = "USER"
)
