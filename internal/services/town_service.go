package services

import (
	"fmt"
	"strings"

	"github.com/CreativeDragon1/Earn2Die/internal/models"
	"github.com/CreativeDragon1/Earn2Die/internal/notifier"
	"github.com/CreativeDragon1/Earn2Die/internal/repositories"
	"github.com/CreativeDragon1/Earn2Die/internal/security"
	"github.com/CreativeDragon1/Earn2Die/pkg/errors"
)

type TownService struct {
	repo       *repositories.TownRepository
	playerRepo *repositories.PlayerRepository
	announcer  *notifier.Notifier
}

func NewTownService(repo *repositories.TownRepository, playerRepo *repositories.PlayerRepository, announcer *notifier.Notifier) *TownService {
	return &TownService{
		repo:       repo,
		playerRepo: playerRepo,
		announcer:  announcer,
	}
}

type ApplyTownInput struct {
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Motto            string   `json:"motto"`
	Coordinates      string   `json:"coordinates"`
	FounderUsernames []string `json:"founderUsernames"`
}

type UpdateTownInput struct {
	Description       *string `json:"description"`
	Motto             *string `json:"motto"`
	Banner            *string `json:"banner"`
	HasWall           *bool   `json:"hasWall"`
	HasPathConnection *bool   `json:"hasPathConnection"`
	HasConstitution   *bool   `json:"hasConstitution"`
}

// Apply submits a town application. Membership is not assigned here: the
// application only records the resolved founder list, and enrollment
// happens at admin approval.
func (s *TownService) Apply(applicantID uint, input ApplyTownInput) (*models.Town, []string, error) {
	input.Name = security.SanitizeString(input.Name)
	if len(input.Name) < 2 || len(input.Name) > 32 {
		return nil, nil, errors.New(errors.ErrCodeValidation, "town name must be 2 to 32 characters")
	}
	if input.Coordinates == "" {
		return nil, nil, errors.New(errors.ErrCodeValidation, "coordinates are required")
	}
	if len(input.Description) > 500 {
		return nil, nil, errors.New(errors.ErrCodeValidation, "description must be at most 500 characters")
	}
	if len(input.Motto) > 100 {
		return nil, nil, errors.New(errors.ErrCodeValidation, "motto must be at most 100 characters")
	}
	if len(input.FounderUsernames) < models.MinFoundingMembers {
		return nil, nil, errors.New(errors.ErrCodeValidation,
			fmt.Sprintf("a town requires at least %d founding members", models.MinFoundingMembers))
	}

	// Applicant must not already be in any town
	existing, err := s.repo.GetMembership(applicantID)
	if err != nil {
		return nil, nil, err
	}
	if existing != nil {
		return nil, nil, errors.New(errors.ErrCodeConflict,
			"you are already a permanent member of a town and cannot found a new one")
	}

	// Every founder username must resolve to a known player
	founders, err := s.playerRepo.GetPlayersByUsernames(input.FounderUsernames)
	if err != nil {
		return nil, nil, err
	}
	if len(founders) < len(input.FounderUsernames) {
		known := make(map[string]bool, len(founders))
		for _, f := range founders {
			known[f.Username] = true
		}
		var missing []string
		for _, u := range input.FounderUsernames {
			if !known[u] {
				missing = append(missing, u)
			}
		}
		return nil, nil, errors.New(errors.ErrCodeNotFound,
			fmt.Sprintf("unknown player usernames: %s", strings.Join(missing, ", ")))
	}

	// No founder may already hold a membership record
	founderIDs := make([]uint, 0, len(founders))
	applicantListed := false
	for _, f := range founders {
		founderIDs = append(founderIDs, f.ID)
		if f.ID == applicantID {
			applicantListed = true
		}
	}
	if !applicantListed {
		return nil, nil, errors.New(errors.ErrCodeValidation, "you must include yourself in the founder list")
	}

	claimed, err := s.repo.GetMembershipsByPlayerIDs(founderIDs)
	if err != nil {
		return nil, nil, err
	}
	if len(claimed) > 0 {
		names := make([]string, 0, len(claimed))
		for _, m := range claimed {
			names = append(names, m.Player.Username)
		}
		return nil, nil, errors.New(errors.ErrCodeConflict,
			fmt.Sprintf("these players are already permanent members of a town: %s", strings.Join(names, ", ")))
	}

	town := &models.Town{
		Name:        input.Name,
		Description: security.SanitizeProse(input.Description),
		Motto:       security.SanitizeProse(input.Motto),
		Coordinates: security.SanitizeString(input.Coordinates),
		OwnerID:     applicantID,
	}
	if err := s.repo.CreateTown(town, founderIDs); err != nil {
		return nil, nil, err
	}

	pendingNames := make([]string, 0, len(founders))
	for _, f := range founders {
		pendingNames = append(pendingNames, f.Username)
	}
	return town, pendingNames, nil
}

// Approve enrolls the pending founders and activates the town. Admin only.
func (s *TownService) Approve(callerRole string, townID uint) (*models.Town, error) {
	if callerRole != models.RoleAdmin {
		return nil, errors.New(errors.ErrCodeForbidden, "only admins can approve town applications")
	}

	town, err := s.repo.ApproveTown(townID)
	if err != nil {
		return nil, err
	}

	s.announcer.TownApproved(town.Name, town.Population)
	return town, nil
}

// Reject declines a pending application. Admin only.
func (s *TownService) Reject(callerRole string, townID uint) (*models.Town, error) {
	if callerRole != models.RoleAdmin {
		return nil, errors.New(errors.ErrCodeForbidden, "only admins can reject town applications")
	}
	return s.repo.RejectTown(townID)
}

// AddMember permanently registers a new member with an approved town.
// Admin only.
func (s *TownService) AddMember(callerRole string, townID uint, username string) (*models.TownMember, error) {
	if callerRole != models.RoleAdmin {
		return nil, errors.New(errors.ErrCodeForbidden, "only admins can add town members")
	}

	town, err := s.repo.GetTownByID(townID)
	if err != nil {
		return nil, err
	}
	if town.Status != models.TownStatusApproved {
		return nil, errors.New(errors.ErrCodePreconditionFailed, "town must be approved before adding members")
	}

	player, err := s.playerRepo.GetPlayerByUsername(username)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetMembership(player.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.New(errors.ErrCodeConflict, "player is already a permanent member of a town")
	}

	return s.repo.AddMember(townID, player.ID)
}

// Update applies detail and requirement-flag edits. Owner or admin only;
// protection status and territory are recomputed afterwards.
func (s *TownService) Update(callerID uint, callerRole string, townID uint, input UpdateTownInput) (*models.Town, error) {
	town, err := s.repo.GetTownByID(townID)
	if err != nil {
		return nil, err
	}
	if town.OwnerID != callerID && callerRole != models.RoleAdmin {
		return nil, errors.New(errors.ErrCodeForbidden, "only the town owner or admin can update")
	}

	updates := map[string]interface{}{}
	if input.Description != nil {
		if len(*input.Description) > 500 {
			return nil, errors.New(errors.ErrCodeValidation, "description must be at most 500 characters")
		}
		updates["description"] = security.SanitizeProse(*input.Description)
	}
	if input.Motto != nil {
		if len(*input.Motto) > 100 {
			return nil, errors.New(errors.ErrCodeValidation, "motto must be at most 100 characters")
		}
		updates["motto"] = security.SanitizeProse(*input.Motto)
	}
	if input.Banner != nil {
		updates["banner"] = security.SanitizeString(*input.Banner)
	}
	if input.HasWall != nil {
		updates["has_wall"] = *input.HasWall
	}
	if input.HasPathConnection != nil {
		updates["has_path_connection"] = *input.HasPathConnection
	}
	if input.HasConstitution != nil {
		updates["has_constitution"] = *input.HasConstitution
	}

	return s.repo.UpdateTown(townID, updates)
}

// GetTown returns a town. Non-admins can only see approved towns.
func (s *TownService) GetTown(callerRole string, townID uint) (*models.Town, []models.TownMember, error) {
	town, err := s.repo.GetTownByID(townID)
	if err != nil {
		return nil, nil, err
	}
	if town.Status != models.TownStatusApproved && callerRole != models.RoleAdmin {
		return nil, nil, errors.New(errors.ErrCodeNotFound, "town not found")
	}

	members, err := s.repo.GetTownMembers(townID)
	if err != nil {
		return nil, nil, err
	}
	return town, members, nil
}

// ListTowns lists approved towns; admins also see pending and rejected
// applications.
func (s *TownService) ListTowns(callerRole string) ([]models.Town, error) {
	return s.repo.ListTowns(callerRole != models.RoleAdmin)
}

// Delete strikes a town from the registry. Admin only.
func (s *TownService) Delete(callerRole string, townID uint) error {
	if callerRole != models.RoleAdmin {
		return errors.New(errors.ErrCodeForbidden, "only admins can remove towns")
	}
	return s.repo.DeleteTown(townID)
}
