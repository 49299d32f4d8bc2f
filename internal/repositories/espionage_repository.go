package repositories

import (
	"github.com/CreativeDragon1/Earn2Die/internal/models"
	"github.com/CreativeDragon1/Earn2Die/pkg/errors"
	"gorm.io/gorm"
)

type EspionageRepository struct {
	db *gorm.DB
}

func NewEspionageRepository(db *gorm.DB) *EspionageRepository {
	return &EspionageRepository{db: db}
}

// CreateReport files a new espionage report
func (r *EspionageRepository) CreateReport(report *models.EspionageReport) error {
	report.Status = models.ReportStatusPending
	if err := r.db.Create(report).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create report")
	}
	return nil
}

// GetReportByID retrieves a report with the spy preloaded
func (r *EspionageRepository) GetReportByID(id uint) (*models.EspionageReport, error) {
	var report models.EspionageReport
	if err := r.db.Preload("Spy").First(&report, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New(errors.ErrCodeNotFound, "report not found")
		}
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get report")
	}
	return &report, nil
}

// ListReports returns reports visible to the viewer: admins see everything,
// everyone else sees their own reports plus unclassified ones.
func (r *EspionageRepository) ListReports(viewerID uint, viewerIsAdmin bool, status, missionType string) ([]models.EspionageReport, error) {
	query := r.db.Preload("Spy").Order("created_at DESC")
	if !viewerIsAdmin {
		query = query.Where("spy_id = ? OR is_classified = ?", viewerID, false)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if missionType != "" {
		query = query.Where("mission_type = ?", missionType)
	}

	var reports []models.EspionageReport
	if err := query.Find(&reports).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list reports")
	}
	return reports, nil
}

// UpdateReportStatus applies a mission status update with its timestamps
func (r *EspionageRepository) UpdateReportStatus(reportID uint, updates map[string]interface{}) (*models.EspionageReport, error) {
	var updated models.EspionageReport
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.EspionageReport{}).Where("id = ?", reportID).Updates(updates).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to update report")
		}
		if err := tx.First(&updated, reportID).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to reload report")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
