package models

import (
	"time"
)

type War struct {
	ID              uint   `gorm:"primaryKey"`
	Title           string `gorm:"type:varchar(100);not null"`
	Reason          string `gorm:"type:varchar(30);not null"`
	ReasonDetails   string `gorm:"type:text"`
	Status          string `gorm:"type:varchar(20);default:'notice_sent';not null;index"`
	Outcome         string `gorm:"type:text"`
	AttackerScore   int    `gorm:"default:0;not null"`
	DefenderScore   int    `gorm:"default:0;not null"`
	AttackerID      uint   `gorm:"not null"`
	Attacker        Player `gorm:"foreignKey:AttackerID"`
	AttackingTownID uint   `gorm:"not null;index"`
	AttackingTown   Town   `gorm:"foreignKey:AttackingTownID"`
	DefendingTownID uint   `gorm:"not null;index"`
	DefendingTown   Town   `gorm:"foreignKey:DefendingTownID"`
	NoticeSentAt    time.Time
	StartedAt       *time.Time
	EndedAt         *time.Time
}

type Battle struct {
	ID                uint   `gorm:"primaryKey"`
	WarID             uint   `gorm:"not null;index"`
	War               War    `gorm:"foreignKey:WarID"`
	Name              string `gorm:"type:varchar(100);not null"`
	Description       string `gorm:"type:text"`
	Victor            string `gorm:"type:varchar(10)"` // attacker, defender or empty
	Location          string `gorm:"type:varchar(100)"`
	ArsonCommitted    bool   `gorm:"default:false;not null"`
	ResidentialDamage bool   `gorm:"default:false;not null"`
	FarmDamage        bool   `gorm:"default:false;not null"`
	FoughtAt          time.Time `gorm:"autoCreateTime"`
}

// War statuses
const (
	WarStatusNoticeSent = "notice_sent"
	WarStatusActive     = "active"
	WarStatusCeasefire  = "ceasefire"
	WarStatusEnded      = "ended"
)

// Battle victors
const (
	VictorAttacker = "attacker"
	VictorDefender = "defender"
)

// Formal war reasons accepted by server rules. "other" requires details.
const (
	WarReasonHarboringEnemies = "harboring_enemies"
	WarReasonResourceInvasion = "resource_invasion"
	WarReasonEspionageRevenge = "espionage_revenge"
	WarReasonOtherRevenge     = "other_revenge"
	WarReasonOther            = "other"
)

// WarNoticePeriod is the mandatory delay between a war notice and the
// earliest permissible start of combat.
const WarNoticePeriod = 24 * time.Hour

func IsValidWarReason(reason string) bool {
	switch reason {
	case WarReasonHarboringEnemies, WarReasonResourceInvasion,
		WarReasonEspionageRevenge, WarReasonOtherRevenge, WarReasonOther:
		return true
	}
	return false
}

// EarliestCombatAt returns the first instant combat may legally begin.
// Derived from the notice timestamp, never persisted.
func (w *War) EarliestCombatAt() time.Time {
	return w.NoticeSentAt.Add(WarNoticePeriod)
}

// NoticeElapsed reports whether the notice period has passed as of now.
func (w *War) NoticeElapsed(now time.Time) bool {
	return !now.Before(w.EarliestCombatAt())
}

func (War) TableName() string {
	return "wars"
}

func (Battle) TableName() string {
	return "battles"
}
