package models

import (
	"time"

	"gorm.io/gorm"
)

type Player struct {
	ID            uint      `gorm:"primaryKey"`
	ExternalUID   string    `gorm:"type:varchar(128);uniqueIndex;not null"` // identity provider subject
	Username      string    `gorm:"type:varchar(20);uniqueIndex;not null"`
	Email         string    `gorm:"type:varchar(255)"`
	Role          string    `gorm:"type:varchar(10);default:'player';not null"`
	Balance       int64     `gorm:"default:0;not null"`
	Reputation    int       `gorm:"default:0;not null"`
	MinecraftUUID string    `gorm:"type:varchar(36)"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

// Player role constants
const (
	RolePlayer = "player"
	RoleMod    = "mod"
	RoleAdmin  = "admin"
)

func IsValidRole(role string) bool {
	switch role {
	case RolePlayer, RoleMod, RoleAdmin:
		return true
	}
	return false
}

// BeforeSave hook for validation. Role may be empty when the column
// default applies or when only other columns are written.
func (p *Player) BeforeSave(tx *gorm.DB) error {
	if p.Role != "" && !IsValidRole(p.Role) {
		return gorm.ErrInvalidData
	}
	if p.Balance < 0 {
		return gorm.ErrInvalidData
	}
	return nil
}

func (Player) TableName() string {
	return "players"
}
