package repositories

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/CreativeDragon1/Earn2Die/internal/models"
	"github.com/CreativeDragon1/Earn2Die/pkg/errors"
	"gorm.io/gorm"
)

type TownRepository struct {
	db *gorm.DB
}

func NewTownRepository(db *gorm.DB) *TownRepository {
	return &TownRepository{db: db}
}

// CreateTown records a town application in pending_approval state. No
// membership rows exist until approval.
func (r *TownRepository) CreateTown(town *models.Town, pendingMemberIDs []uint) error {
	encoded, err := json.Marshal(pendingMemberIDs)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to encode founder list")
	}
	town.PendingMemberIDs = string(encoded)
	town.Status = models.TownStatusPending

	if err := r.db.Create(town).Error; err != nil {
		if isUniqueViolation(err) {
			return errors.New(errors.ErrCodeConflict, "town name already taken")
		}
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create town")
	}
	return nil
}

// GetTownByID retrieves a town with its owner preloaded
func (r *TownRepository) GetTownByID(id uint) (*models.Town, error) {
	var town models.Town
	if err := r.db.Preload("Owner").First(&town, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New(errors.ErrCodeNotFound, "town not found")
		}
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get town")
	}
	return &town, nil
}

// GetTownByName retrieves a town by its unique name
func (r *TownRepository) GetTownByName(name string) (*models.Town, error) {
	var town models.Town
	if err := r.db.Where("name = ?", name).First(&town).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New(errors.ErrCodeNotFound, "town not found")
		}
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get town by name")
	}
	return &town, nil
}

// ListTowns returns towns ordered by population. When approvedOnly is set,
// pending and rejected applications are hidden.
func (r *TownRepository) ListTowns(approvedOnly bool) ([]models.Town, error) {
	query := r.db.Preload("Owner").Order("population DESC")
	if approvedOnly {
		query = query.Where("status = ?", models.TownStatusApproved)
	}

	var towns []models.Town
	if err := query.Find(&towns).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list towns")
	}
	return towns, nil
}

// GetMembership returns the player's lifetime membership record, or nil if
// the player has never joined a town.
func (r *TownRepository) GetMembership(playerID uint) (*models.TownMember, error) {
	var member models.TownMember
	if err := r.db.Preload("Town").Where("player_id = ?", playerID).First(&member).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get membership")
	}
	return &member, nil
}

// GetMembershipsByPlayerIDs returns every membership record held by the
// given players, with usernames preloaded for conflict reporting.
func (r *TownRepository) GetMembershipsByPlayerIDs(playerIDs []uint) ([]models.TownMember, error) {
	var members []models.TownMember
	if err := r.db.Preload("Player").Where("player_id IN ?", playerIDs).Find(&members).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get memberships")
	}
	return members, nil
}

// GetTownMembers lists a town's membership roll
func (r *TownRepository) GetTownMembers(townID uint) ([]models.TownMember, error) {
	var members []models.TownMember
	if err := r.db.Preload("Player").Where("town_id = ?", townID).Order("joined_at ASC").Find(&members).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get town members")
	}
	return members, nil
}

// ApproveTown enrolls every pending founder, marks the town approved and
// recomputes the derived fields, all in one transaction. Partial enrollment
// is never observable. Founders who joined another town since application
// are re-checked inside the transaction; the unique index on player_id
// backs the check against concurrent approvals.
func (r *TownRepository) ApproveTown(townID uint) (*models.Town, error) {
	var approved *models.Town
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var town models.Town
		if err := tx.First(&town, townID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.New(errors.ErrCodeNotFound, "town not found")
			}
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to get town")
		}
		if town.Status != models.TownStatusPending {
			return errors.New(errors.ErrCodeConflict, fmt.Sprintf("town is already %s", town.Status))
		}

		var memberIDs []uint
		if town.PendingMemberIDs != "" {
			if err := json.Unmarshal([]byte(town.PendingMemberIDs), &memberIDs); err != nil {
				return errors.Wrap(err, errors.ErrCodeInternalError, "failed to decode founder list")
			}
		}

		// Re-check that no founder joined another town since application
		var conflicts []models.TownMember
		if err := tx.Preload("Player").Where("player_id IN ?", memberIDs).Find(&conflicts).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to re-check founders")
		}
		if len(conflicts) > 0 {
			names := make([]string, 0, len(conflicts))
			for _, m := range conflicts {
				names = append(names, m.Player.Username)
			}
			return errors.New(errors.ErrCodeConflict,
				fmt.Sprintf("these founders already belong to a different town and must be removed: %s", strings.Join(names, ", ")))
		}

		for _, pid := range memberIDs {
			role := models.TownRoleCitizen
			if pid == town.OwnerID {
				role = models.TownRoleLeader
			}
			member := &models.TownMember{
				PlayerID: pid,
				TownID:   town.ID,
				Role:     role,
			}
			if err := tx.Create(member).Error; err != nil {
				if isUniqueViolation(err) {
					return errors.New(errors.ErrCodeConflict, "a founder was claimed by another town during approval")
				}
				return errors.Wrap(err, errors.ErrCodeInternalError, "failed to enroll founder")
			}
		}

		town.Status = models.TownStatusApproved
		town.Population = len(memberIDs)
		town.PendingMemberIDs = ""
		town.ProtectionStatus = models.ComputeProtectionStatus(&town)
		town.Territory = models.ComputeTerritory(town.Population)
		if err := tx.Save(&town).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to update town")
		}

		approved = &town
		return nil
	})
	if err != nil {
		return nil, err
	}
	return approved, nil
}

// RejectTown closes out a pending application. No membership rows are ever
// created for a rejected town.
func (r *TownRepository) RejectTown(townID uint) (*models.Town, error) {
	var rejected *models.Town
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var town models.Town
		if err := tx.First(&town, townID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.New(errors.ErrCodeNotFound, "town not found")
			}
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to get town")
		}
		if town.Status != models.TownStatusPending {
			return errors.New(errors.ErrCodeConflict, fmt.Sprintf("town is already %s", town.Status))
		}

		town.Status = models.TownStatusRejected
		town.PendingMemberIDs = ""
		if err := tx.Save(&town).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to update town")
		}
		rejected = &town
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rejected, nil
}

// AddMember permanently enrolls a player into an approved town and
// recomputes the derived fields in the same transaction.
func (r *TownRepository) AddMember(townID, playerID uint) (*models.TownMember, error) {
	var created *models.TownMember
	err := r.db.Transaction(func(tx *gorm.DB) error {
		member := &models.TownMember{
			PlayerID: playerID,
			TownID:   townID,
			Role:     models.TownRoleCitizen,
		}
		if err := tx.Create(member).Error; err != nil {
			if isUniqueViolation(err) {
				return errors.New(errors.ErrCodeConflict, "player is already a permanent member of a town")
			}
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to add member")
		}

		if err := tx.Model(&models.Town{}).Where("id = ?", townID).
			Update("population", gorm.Expr("population + 1")).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to update population")
		}

		if err := refreshDerived(tx, townID); err != nil {
			return err
		}
		created = member
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateTown applies owner/admin edits and recomputes the derived fields in
// the same transaction.
func (r *TownRepository) UpdateTown(townID uint, updates map[string]interface{}) (*models.Town, error) {
	var updated models.Town
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&models.Town{}).Where("id = ?", townID).Updates(updates).Error; err != nil {
				return errors.Wrap(err, errors.ErrCodeInternalError, "failed to update town")
			}
		}
		if err := refreshDerived(tx, townID); err != nil {
			return err
		}
		if err := tx.Preload("Owner").First(&updated, townID).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to reload town")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteTown removes a town record. Membership rows are kept: membership is
// permanent even if the settlement itself is struck from the registry.
func (r *TownRepository) DeleteTown(townID uint) error {
	result := r.db.Delete(&models.Town{}, townID)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to delete town")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotFound, "town not found")
	}
	return nil
}

// refreshDerived recomputes protection status and territory from the
// current row state. Always a full recompute, never an incremental patch.
func refreshDerived(tx *gorm.DB, townID uint) error {
	var town models.Town
	if err := tx.First(&town, townID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.New(errors.ErrCodeNotFound, "town not found")
		}
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to reload town")
	}

	var memberCount int64
	if err := tx.Model(&models.TownMember{}).Where("town_id = ?", townID).Count(&memberCount).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to count members")
	}

	return tx.Model(&models.Town{}).Where("id = ?", townID).Updates(map[string]interface{}{
		"protection_status": models.ComputeProtectionStatus(&town),
		"territory":         models.ComputeTerritory(int(memberCount)),
	}).Error
}

// isUniqueViolation matches unique-constraint failures across the postgres
// driver and the sqlite driver used in tests.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if err == gorm.ErrDuplicatedKey {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}
