package models

import (
	"time"
)

type EspionageReport struct {
	ID             uint   `gorm:"primaryKey"`
	SpyID          uint   `gorm:"not null;index"`
	Spy            Player `gorm:"foreignKey:SpyID"`
	MissionType    string `gorm:"type:varchar(20);not null;index"`
	Severity       string `gorm:"type:varchar(10);default:'low';not null"`
	Status         string `gorm:"type:varchar(20);default:'pending';not null;index"`
	Title          string `gorm:"type:varchar(100);not null"`
	Details        string `gorm:"type:text;not null"`
	Evidence       string `gorm:"type:varchar(500)"`
	IntelGained    string `gorm:"type:text"`
	TargetPlayerID uint   `gorm:"default:0"`
	TargetTownID   uint   `gorm:"default:0"`
	IsClassified   bool   `gorm:"default:false;not null"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	ResolvedAt     *time.Time
}

// Mission types
const (
	MissionInfiltration  = "infiltration"
	MissionSabotage      = "sabotage"
	MissionIntel         = "intel"
	MissionCounterSpy    = "counter_spy"
	MissionAssassination = "assassination"
)

// Report statuses
const (
	ReportStatusPending     = "pending"
	ReportStatusCompleted   = "completed"
	ReportStatusFailed      = "failed"
	ReportStatusIntercepted = "intercepted"
)

// Report severities
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

func IsValidMissionType(missionType string) bool {
	switch missionType {
	case MissionInfiltration, MissionSabotage, MissionIntel,
		MissionCounterSpy, MissionAssassination:
		return true
	}
	return false
}

func IsValidSeverity(severity string) bool {
	switch severity {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// IsResolvedStatus reports whether a status ends the mission.
func IsResolvedStatus(status string) bool {
	switch status {
	case ReportStatusCompleted, ReportStatusFailed, ReportStatusIntercepted:
		return true
	}
	return false
}

func (EspionageReport) TableName() string {
	return "espionage_reports"
}
