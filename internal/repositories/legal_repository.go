package repositories

import (
	"time"

	"github.com/CreativeDragon1/Earn2Die/internal/models"
	"github.com/CreativeDragon1/Earn2Die/pkg/errors"
	"gorm.io/gorm"
)

type LegalRepository struct {
	db *gorm.DB
}

func NewLegalRepository(db *gorm.DB) *LegalRepository {
	return &LegalRepository{db: db}
}

// CreateCase files a new legal case
func (r *LegalRepository) CreateCase(legalCase *models.LegalCase) error {
	legalCase.Status = models.CaseStatusFiled
	if err := r.db.Create(legalCase).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to file case")
	}
	return nil
}

// GetCaseByID retrieves a case with its parties preloaded
func (r *LegalRepository) GetCaseByID(id uint) (*models.LegalCase, error) {
	var legalCase models.LegalCase
	if err := r.db.Preload("Plaintiff").Preload("Defendant").Preload("Judge").First(&legalCase, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New(errors.ErrCodeNotFound, "case not found")
		}
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get case")
	}
	return &legalCase, nil
}

// ListCases returns cases newest-filed first, optionally filtered
func (r *LegalRepository) ListCases(status, caseType string) ([]models.LegalCase, error) {
	query := r.db.Preload("Plaintiff").Preload("Defendant").Preload("Judge").Order("filed_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if caseType != "" {
		query = query.Where("type = ?", caseType)
	}

	var cases []models.LegalCase
	if err := query.Find(&cases).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list cases")
	}
	return cases, nil
}

// AssignJudge sets the judge and moves the case to under_review
func (r *LegalRepository) AssignJudge(caseID, judgeID uint) (*models.LegalCase, error) {
	var updated models.LegalCase
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.LegalCase{}).
			Where("id = ? AND status <> ?", caseID, models.CaseStatusClosed).
			Updates(map[string]interface{}{
				"judge_id": judgeID,
				"status":   models.CaseStatusUnderReview,
			})
		if result.Error != nil {
			return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to assign judge")
		}
		if result.RowsAffected == 0 {
			return errors.New(errors.ErrCodeConflict, "case is closed or does not exist")
		}
		if err := tx.Preload("Judge").First(&updated, caseID).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to reload case")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// UpdateCaseStatus applies a caller-supplied status. Closed is terminal:
// the conditional update refuses to touch a closed case.
func (r *LegalRepository) UpdateCaseStatus(caseID uint, updates map[string]interface{}) (*models.LegalCase, error) {
	var updated models.LegalCase
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.LegalCase{}).
			Where("id = ? AND status <> ?", caseID, models.CaseStatusClosed).
			Updates(updates)
		if result.Error != nil {
			return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to update case")
		}
		if result.RowsAffected == 0 {
			return errors.New(errors.ErrCodeConflict, "case is closed or does not exist")
		}
		if err := tx.First(&updated, caseID).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to reload case")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// IssueVerdict creates the case's single verdict and closes the case in
// one transaction. The unique index on case_id backs the one-verdict rule
// against concurrent issuance; the conditional close refuses a case that
// was already closed by other means.
func (r *LegalRepository) IssueVerdict(verdict *models.Verdict) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Verdict
		err := tx.Where("case_id = ?", verdict.CaseID).First(&existing).Error
		if err == nil {
			return errors.New(errors.ErrCodeConflict, "verdict already issued for this case")
		}
		if err != gorm.ErrRecordNotFound {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to check for existing verdict")
		}

		result := tx.Model(&models.LegalCase{}).
			Where("id = ? AND status <> ?", verdict.CaseID, models.CaseStatusClosed).
			Updates(map[string]interface{}{
				"status":    models.CaseStatusClosed,
				"closed_at": time.Now().UTC(),
			})
		if result.Error != nil {
			return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to close case")
		}
		if result.RowsAffected == 0 {
			return errors.New(errors.ErrCodeConflict, "case is closed or does not exist")
		}

		if err := tx.Create(verdict).Error; err != nil {
			if isUniqueViolation(err) {
				return errors.New(errors.ErrCodeConflict, "verdict already issued for this case")
			}
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to issue verdict")
		}
		return nil
	})
}

// GetVerdictByCaseID retrieves a case's verdict
func (r *LegalRepository) GetVerdictByCaseID(caseID uint) (*models.Verdict, error) {
	var verdict models.Verdict
	if err := r.db.Preload("Judge").Where("case_id = ?", caseID).First(&verdict).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New(errors.ErrCodeNotFound, "verdict not found")
		}
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get verdict")
	}
	return &verdict, nil
}

// AddComment appends a comment to a case
func (r *LegalRepository) AddComment(comment *models.CaseComment) error {
	if err := r.db.Create(comment).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to add comment")
	}
	return nil
}

// GetComments lists a case's comments in posting order
func (r *LegalRepository) GetComments(caseID uint) ([]models.CaseComment, error) {
	var comments []models.CaseComment
	if err := r.db.Preload("Author").Where("case_id = ?", caseID).
		Order("created_at ASC").Find(&comments).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get comments")
	}
	return comments, nil
}
