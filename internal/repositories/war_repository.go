package repositories

import (
	"time"

	"github.com/CreativeDragon1/Earn2Die/internal/models"
	"github.com/CreativeDragon1/Earn2Die/pkg/errors"
	"gorm.io/gorm"
)

type WarRepository struct {
	db *gorm.DB
}

func NewWarRepository(db *gorm.DB) *WarRepository {
	return &WarRepository{db: db}
}

// CreateWar records a formal war notice
func (r *WarRepository) CreateWar(war *models.War) error {
	war.Status = models.WarStatusNoticeSent
	if war.NoticeSentAt.IsZero() {
		war.NoticeSentAt = time.Now().UTC()
	}
	if err := r.db.Create(war).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create war")
	}
	return nil
}

// GetWarByID retrieves a war with belligerents preloaded
func (r *WarRepository) GetWarByID(id uint) (*models.War, error) {
	var war models.War
	if err := r.db.Preload("Attacker").Preload("AttackingTown").Preload("DefendingTown").First(&war, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New(errors.ErrCodeNotFound, "war not found")
		}
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get war")
	}
	return &war, nil
}

// ListWars returns wars newest-notice first, optionally filtered by status
func (r *WarRepository) ListWars(status string) ([]models.War, error) {
	query := r.db.Preload("AttackingTown").Preload("DefendingTown").Order("notice_sent_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var wars []models.War
	if err := query.Find(&wars).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list wars")
	}
	return wars, nil
}

// UpdateWarStatus applies a status transition with its timestamps
func (r *WarRepository) UpdateWarStatus(warID uint, updates map[string]interface{}) (*models.War, error) {
	var updated models.War
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.War{}).Where("id = ?", warID).Updates(updates).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to update war")
		}
		if err := tx.First(&updated, warID).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to reload war")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// AddBattle appends a battle to a war and, when a victor is named,
// increments the matching score counter in the same transaction.
func (r *WarRepository) AddBattle(battle *models.Battle) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(battle).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to record battle")
		}

		if battle.Victor != "" {
			scoreColumn := "defender_score"
			if battle.Victor == models.VictorAttacker {
				scoreColumn = "attacker_score"
			}
			if err := tx.Model(&models.War{}).Where("id = ?", battle.WarID).
				Update(scoreColumn, gorm.Expr(scoreColumn+" + 1")).Error; err != nil {
				return errors.Wrap(err, errors.ErrCodeInternalError, "failed to update war score")
			}
		}
		return nil
	})
}

// GetBattles lists a war's battles, most recent first
func (r *WarRepository) GetBattles(warID uint) ([]models.Battle, error) {
	var battles []models.Battle
	if err := r.db.Where("war_id = ?", warID).Order("fought_at DESC").Find(&battles).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get battles")
	}
	return battles, nil
}
