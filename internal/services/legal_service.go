package services

import (
	"time"

	"github.com/CreativeDragon1/Earn2Die/internal/models"
	"github.com/CreativeDragon1/Earn2Die/internal/notifier"
	"github.com/CreativeDragon1/Earn2Die/internal/repositories"
	"github.com/CreativeDragon1/Earn2Die/internal/security"
	"github.com/CreativeDragon1/Earn2Die/pkg/errors"
	"github.com/CreativeDragon1/Earn2Die/pkg/utils"
)

type LegalService struct {
	repo       *repositories.LegalRepository
	playerRepo *repositories.PlayerRepository
	announcer  *notifier.Notifier
}

func NewLegalService(repo *repositories.LegalRepository, playerRepo *repositories.PlayerRepository, announcer *notifier.Notifier) *LegalService {
	return &LegalService{
		repo:       repo,
		playerRepo: playerRepo,
		announcer:  announcer,
	}
}

type FileCaseInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Priority    string `json:"priority"`
	Evidence    string `json:"evidence"`
	DefendantID uint   `json:"defendantId"`
	TownID      uint   `json:"townId"`
}

type VerdictInput struct {
	Decision  string `json:"decision"`
	Reasoning string `json:"reasoning"`
	Penalty   string `json:"penalty"`
}

type CommentInput struct {
	Content    string `json:"content"`
	IsOfficial bool   `json:"isOfficial"`
}

// FileCase opens a new case against another player
func (s *LegalService) FileCase(plaintiffID uint, input FileCaseInput) (*models.LegalCase, error) {
	input.Title = security.SanitizeString(input.Title)
	if len(input.Title) < 3 || len(input.Title) > 200 {
		return nil, errors.New(errors.ErrCodeValidation, "title must be 3 to 200 characters")
	}
	if len(input.Description) < 20 || len(input.Description) > 5000 {
		return nil, errors.New(errors.ErrCodeValidation, "description must be 20 to 5000 characters")
	}
	if len(input.Evidence) > 2000 {
		return nil, errors.New(errors.ErrCodeValidation, "evidence must be at most 2000 characters")
	}
	if input.Type == "" {
		input.Type = models.CaseTypeDispute
	}
	if !models.IsValidCaseType(input.Type) {
		return nil, errors.New(errors.ErrCodeValidation, "invalid case type")
	}
	if input.Priority == "" {
		input.Priority = models.PriorityNormal
	}
	if !models.IsValidPriority(input.Priority) {
		return nil, errors.New(errors.ErrCodeValidation, "invalid priority")
	}
	if input.DefendantID == plaintiffID {
		return nil, errors.New(errors.ErrCodeValidation, "cannot file a case against yourself")
	}
	if _, err := s.playerRepo.GetPlayerByID(input.DefendantID); err != nil {
		return nil, err
	}

	legalCase := &models.LegalCase{
		CaseNumber:  "CASE-" + utils.GenerateDocketNumber(8),
		Title:       input.Title,
		Description: security.SanitizeProse(input.Description),
		Type:        input.Type,
		Priority:    input.Priority,
		Evidence:    security.SanitizeProse(input.Evidence),
		PlaintiffID: plaintiffID,
		DefendantID: input.DefendantID,
		TownID:      input.TownID,
	}
	if err := s.repo.CreateCase(legalCase); err != nil {
		return nil, err
	}
	return legalCase, nil
}

// AssignJudge puts a judge on the case. Mod or admin only.
func (s *LegalService) AssignJudge(callerRole string, caseID, judgeID uint) (*models.LegalCase, error) {
	if callerRole != models.RoleAdmin && callerRole != models.RoleMod {
		return nil, errors.New(errors.ErrCodeForbidden, "only admins or mods can assign judges")
	}
	if _, err := s.playerRepo.GetPlayerByID(judgeID); err != nil {
		return nil, err
	}
	return s.repo.AssignJudge(caseID, judgeID)
}

// UpdateStatus applies a caller-supplied status. The assigned judge or an
// admin may pick any status; transition order is intentionally not
// enforced, but closed is terminal.
func (s *LegalService) UpdateStatus(callerID uint, callerRole string, caseID uint, status string, trialDate *time.Time) (*models.LegalCase, error) {
	legalCase, err := s.repo.GetCaseByID(caseID)
	if err != nil {
		return nil, err
	}
	if !s.isAssignedJudge(legalCase, callerID) && callerRole != models.RoleAdmin {
		return nil, errors.New(errors.ErrCodeForbidden, "only the assigned judge or admin can update status")
	}
	if !models.IsValidCaseStatus(status) {
		return nil, errors.New(errors.ErrCodeValidation, "invalid case status")
	}

	updates := map[string]interface{}{"status": status}
	if trialDate != nil {
		updates["trial_date"] = *trialDate
	}
	if status == models.CaseStatusClosed {
		updates["closed_at"] = time.Now().UTC()
	}
	return s.repo.UpdateCaseStatus(caseID, updates)
}

// IssueVerdict records the case's single verdict and closes the case in
// one transaction. Assigned judge or admin only.
func (s *LegalService) IssueVerdict(callerID uint, callerRole string, caseID uint, input VerdictInput) (*models.Verdict, error) {
	legalCase, err := s.repo.GetCaseByID(caseID)
	if err != nil {
		return nil, err
	}
	if !s.isAssignedJudge(legalCase, callerID) && callerRole != models.RoleAdmin {
		return nil, errors.New(errors.ErrCodeForbidden, "only the assigned judge can issue a verdict")
	}

	if !models.IsValidDecision(input.Decision) {
		return nil, errors.New(errors.ErrCodeValidation, "invalid decision")
	}
	if len(input.Reasoning) < 10 || len(input.Reasoning) > 5000 {
		return nil, errors.New(errors.ErrCodeValidation, "reasoning must be 10 to 5000 characters")
	}
	if len(input.Penalty) > 1000 {
		return nil, errors.New(errors.ErrCodeValidation, "penalty must be at most 1000 characters")
	}

	verdict := &models.Verdict{
		CaseID:    caseID,
		Decision:  input.Decision,
		Reasoning: security.SanitizeProse(input.Reasoning),
		Penalty:   security.SanitizeProse(input.Penalty),
		JudgeID:   callerID,
	}
	if err := s.repo.IssueVerdict(verdict); err != nil {
		return nil, err
	}

	s.announcer.VerdictIssued(legalCase.CaseNumber, verdict.Decision)
	return verdict, nil
}

// AddComment appends a comment. Official comments are restricted to the
// assigned judge, mods and admins.
func (s *LegalService) AddComment(callerID uint, callerRole string, caseID uint, input CommentInput) (*models.CaseComment, error) {
	if input.Content == "" || len(input.Content) > 2000 {
		return nil, errors.New(errors.ErrCodeValidation, "content must be 1 to 2000 characters")
	}

	legalCase, err := s.repo.GetCaseByID(caseID)
	if err != nil {
		return nil, err
	}
	if input.IsOfficial && callerRole != models.RoleAdmin && callerRole != models.RoleMod && !s.isAssignedJudge(legalCase, callerID) {
		return nil, errors.New(errors.ErrCodeForbidden, "only judges can post official comments")
	}

	comment := &models.CaseComment{
		CaseID:     caseID,
		AuthorID:   callerID,
		Content:    security.SanitizeProse(input.Content),
		IsOfficial: input.IsOfficial,
	}
	if err := s.repo.AddComment(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// GetCase returns a case with its verdict (if any) and comments
func (s *LegalService) GetCase(caseID uint) (*models.LegalCase, *models.Verdict, []models.CaseComment, error) {
	legalCase, err := s.repo.GetCaseByID(caseID)
	if err != nil {
		return nil, nil, nil, err
	}

	verdict, err := s.repo.GetVerdictByCaseID(caseID)
	if err != nil && errors.Code(err) != errors.ErrCodeNotFound {
		return nil, nil, nil, err
	}

	comments, err := s.repo.GetComments(caseID)
	if err != nil {
		return nil, nil, nil, err
	}
	return legalCase, verdict, comments, nil
}

// ListCases lists cases, optionally filtered by status and type
func (s *LegalService) ListCases(status, caseType string) ([]models.LegalCase, error) {
	return s.repo.ListCases(status, caseType)
}

func (s *LegalService) isAssignedJudge(legalCase *models.LegalCase, callerID uint) bool {
	return legalCase.JudgeID != nil && *legalCase.JudgeID == callerID
}
