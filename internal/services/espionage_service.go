package services

import (
	"time"

	"github.com/CreativeDragon1/Earn2Die/internal/models"
	"github.com/CreativeDragon1/Earn2Die/internal/repositories"
	"github.com/CreativeDragon1/Earn2Die/internal/security"
	"github.com/CreativeDragon1/Earn2Die/pkg/errors"
)

type EspionageService struct {
	repo *repositories.EspionageRepository
}

func NewEspionageService(repo *repositories.EspionageRepository) *EspionageService {
	return &EspionageService{repo: repo}
}

type CreateReportInput struct {
	MissionType    string `json:"missionType"`
	Severity       string `json:"severity"`
	Title          string `json:"title"`
	Details        string `json:"details"`
	Evidence       string `json:"evidence"`
	TargetPlayerID uint   `json:"targetPlayerId"`
	TargetTownID   uint   `json:"targetTownId"`
	IsClassified   bool   `json:"isClassified"`
}

// CreateReport files a new intelligence report attributed to the spy
func (s *EspionageService) CreateReport(spyID uint, input CreateReportInput) (*models.EspionageReport, error) {
	if !models.IsValidMissionType(input.MissionType) {
		return nil, errors.New(errors.ErrCodeValidation, "invalid mission type")
	}
	if input.Severity == "" {
		input.Severity = models.SeverityLow
	}
	if !models.IsValidSeverity(input.Severity) {
		return nil, errors.New(errors.ErrCodeValidation, "invalid severity")
	}
	input.Title = security.SanitizeString(input.Title)
	if len(input.Title) < 3 || len(input.Title) > 100 {
		return nil, errors.New(errors.ErrCodeValidation, "title must be 3 to 100 characters")
	}
	if len(input.Details) < 10 || len(input.Details) > 2000 {
		return nil, errors.New(errors.ErrCodeValidation, "details must be 10 to 2000 characters")
	}
	if len(input.Evidence) > 500 {
		return nil, errors.New(errors.ErrCodeValidation, "evidence must be at most 500 characters")
	}

	report := &models.EspionageReport{
		SpyID:          spyID,
		MissionType:    input.MissionType,
		Severity:       input.Severity,
		Title:          input.Title,
		Details:        security.SanitizeProse(input.Details),
		Evidence:       security.SanitizeProse(input.Evidence),
		TargetPlayerID: input.TargetPlayerID,
		TargetTownID:   input.TargetTownID,
		IsClassified:   input.IsClassified,
	}
	if err := s.repo.CreateReport(report); err != nil {
		return nil, err
	}
	return report, nil
}

// GetReport returns a report. Classified reports are visible only to
// their author and admins.
func (s *EspionageService) GetReport(callerID uint, callerRole string, reportID uint) (*models.EspionageReport, error) {
	report, err := s.repo.GetReportByID(reportID)
	if err != nil {
		return nil, err
	}
	if report.IsClassified && report.SpyID != callerID && callerRole != models.RoleAdmin {
		return nil, errors.New(errors.ErrCodeForbidden, "classified report")
	}
	return report, nil
}

// ListReports lists reports visible to the caller
func (s *EspionageService) ListReports(callerID uint, callerRole string, status, missionType string) ([]models.EspionageReport, error) {
	return s.repo.ListReports(callerID, callerRole == models.RoleAdmin, status, missionType)
}

// UpdateStatus moves a mission through its lifecycle. Spy or admin only;
// terminal statuses stamp the resolution time.
func (s *EspionageService) UpdateStatus(callerID uint, callerRole string, reportID uint, status, intelGained string) (*models.EspionageReport, error) {
	report, err := s.repo.GetReportByID(reportID)
	if err != nil {
		return nil, err
	}
	if report.SpyID != callerID && callerRole != models.RoleAdmin {
		return nil, errors.New(errors.ErrCodeForbidden, "not authorized")
	}

	if status != models.ReportStatusPending && !models.IsResolvedStatus(status) {
		return nil, errors.New(errors.ErrCodeValidation, "invalid report status")
	}

	updates := map[string]interface{}{"status": status}
	if models.IsResolvedStatus(status) {
		updates["resolved_at"] = time.Now().UTC()
	}
	if intelGained != "" {
		updates["intel_gained"] = security.SanitizeProse(intelGained)
	}
	return s.repo.UpdateReportStatus(reportID, updates)
}
