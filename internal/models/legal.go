package models

import (
	"time"
)

type LegalCase struct {
	ID          uint    `gorm:"primaryKey"`
	CaseNumber  string  `gorm:"type:varchar(16);uniqueIndex;not null"`
	Title       string  `gorm:"type:varchar(200);not null"`
	Description string  `gorm:"type:text;not null"`
	Type        string  `gorm:"type:varchar(20);default:'dispute';not null;index"`
	Status      string  `gorm:"type:varchar(20);default:'filed';not null;index"`
	Priority    string  `gorm:"type:varchar(10);default:'normal';not null"`
	Evidence    string  `gorm:"type:text"`
	PlaintiffID uint    `gorm:"not null;index"`
	Plaintiff   Player  `gorm:"foreignKey:PlaintiffID"`
	DefendantID uint    `gorm:"not null;index"`
	Defendant   Player  `gorm:"foreignKey:DefendantID"`
	JudgeID     *uint   `gorm:"index"`
	Judge       *Player `gorm:"foreignKey:JudgeID"`
	TownID      uint    `gorm:"default:0"` // optional affected town
	FiledAt     time.Time `gorm:"autoCreateTime"`
	TrialDate   *time.Time
	ClosedAt    *time.Time
}

// CaseID carries a unique index: a case receives at most one verdict.
type Verdict struct {
	ID        uint      `gorm:"primaryKey"`
	CaseID    uint      `gorm:"uniqueIndex;not null"`
	Case      LegalCase `gorm:"foreignKey:CaseID"`
	Decision  string    `gorm:"type:varchar(20);not null"`
	Reasoning string    `gorm:"type:text;not null"`
	Penalty   string    `gorm:"type:text"`
	JudgeID   uint      `gorm:"not null"`
	Judge     Player    `gorm:"foreignKey:JudgeID"`
	IssuedAt  time.Time `gorm:"autoCreateTime"`
}

type CaseComment struct {
	ID         uint      `gorm:"primaryKey"`
	CaseID     uint      `gorm:"not null;index"`
	AuthorID   uint      `gorm:"not null"`
	Author     Player    `gorm:"foreignKey:AuthorID"`
	Content    string    `gorm:"type:text;not null"`
	IsOfficial bool      `gorm:"default:false;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

// Case statuses. Transitions are caller-supplied and intentionally loose;
// the only hard rule is that closed is terminal.
const (
	CaseStatusFiled        = "filed"
	CaseStatusUnderReview  = "under_review"
	CaseStatusTrial        = "trial"
	CaseStatusDeliberation = "deliberation"
	CaseStatusClosed       = "closed"
)

// Case types
const (
	CaseTypeDispute         = "dispute"
	CaseTypeCriminal        = "criminal"
	CaseTypeAppeal          = "appeal"
	CaseTypeTreatyViolation = "treaty_violation"
	CaseTypeLandClaim       = "land_claim"
)

// Case priorities
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Verdict decisions
const (
	DecisionGuilty    = "guilty"
	DecisionNotGuilty = "not_guilty"
	DecisionSettled   = "settled"
	DecisionDismissed = "dismissed"
)

func IsValidCaseStatus(status string) bool {
	switch status {
	case CaseStatusFiled, CaseStatusUnderReview, CaseStatusTrial,
		CaseStatusDeliberation, CaseStatusClosed:
		return true
	}
	return false
}

func IsValidCaseType(caseType string) bool {
	switch caseType {
	case CaseTypeDispute, CaseTypeCriminal, CaseTypeAppeal,
		CaseTypeTreatyViolation, CaseTypeLandClaim:
		return true
	}
	return false
}

func IsValidPriority(priority string) bool {
	switch priority {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

func IsValidDecision(decision string) bool {
	switch decision {
	case DecisionGuilty, DecisionNotGuilty, DecisionSettled, DecisionDismissed:
		return true
	}
	return false
}

func (LegalCase) TableName() string {
	return "legal_cases"
}

func (Verdict) TableName() string {
	return "verdicts"
}

func (CaseComment) TableName() string {
	return "case_comments"
}
