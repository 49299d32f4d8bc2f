package services

import (
	"github.com/CreativeDragon1/Earn2Die/internal/models"
	"github.com/CreativeDragon1/Earn2Die/internal/repositories"
	"github.com/CreativeDragon1/Earn2Die/internal/security"
	"github.com/CreativeDragon1/Earn2Die/pkg/errors"
)

type PlayerService struct {
	repo     *repositories.PlayerRepository
	townRepo *repositories.TownRepository
}

func NewPlayerService(repo *repositories.PlayerRepository, townRepo *repositories.TownRepository) *PlayerService {
	return &PlayerService{
		repo:     repo,
		townRepo: townRepo,
	}
}

type SyncProfileInput struct {
	Username      string `json:"username"`
	MinecraftUUID string `json:"minecraftUuid"`
}

// SyncProfile creates the player record on the first call after identity
// sign-up and returns the existing record on every later call.
func (s *PlayerService) SyncProfile(externalUID, email string, input SyncProfileInput) (*models.Player, *models.TownMember, bool, error) {
	existing, err := s.repo.GetPlayerByExternalUID(externalUID)
	if err == nil {
		membership, err := s.townRepo.GetMembership(existing.ID)
		if err != nil {
			return nil, nil, false, err
		}
		return existing, membership, false, nil
	}
	if errors.Code(err) != errors.ErrCodeNotFound {
		return nil, nil, false, err
	}

	// New player: a valid username is required on first sync
	if !security.ValidateUsername(input.Username) {
		return nil, nil, false, errors.New(errors.ErrCodeValidation,
			"username must be 3 to 20 characters, alphanumeric and underscores only")
	}
	if _, err := s.repo.GetPlayerByUsername(input.Username); err == nil {
		return nil, nil, false, errors.New(errors.ErrCodeConflict, "username already taken")
	}

	player := &models.Player{
		ExternalUID:   externalUID,
		Username:      input.Username,
		Email:         email,
		Role:          models.RolePlayer,
		MinecraftUUID: security.SanitizeString(input.MinecraftUUID),
	}
	if err := s.repo.CreatePlayer(player); err != nil {
		return nil, nil, false, err
	}
	return player, nil, true, nil
}

// GetProfile returns a player with their town membership
func (s *PlayerService) GetProfile(playerID uint) (*models.Player, *models.TownMember, error) {
	player, err := s.repo.GetPlayerByID(playerID)
	if err != nil {
		return nil, nil, err
	}
	membership, err := s.townRepo.GetMembership(playerID)
	if err != nil {
		return nil, nil, err
	}
	return player, membership, nil
}

// SearchPlayers lists players by reputation, optionally filtered
func (s *PlayerService) SearchPlayers(search string, limit int) ([]models.Player, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.SearchPlayers(search, limit)
}

// UpdateRole changes a player's server role. Admin only.
func (s *PlayerService) UpdateRole(callerRole string, playerID uint, role string) (*models.Player, error) {
	if callerRole != models.RoleAdmin {
		return nil, errors.New(errors.ErrCodeForbidden, "only admins can change roles")
	}
	if !models.IsValidRole(role) {
		return nil, errors.New(errors.ErrCodeValidation, "invalid role")
	}
	if err := s.repo.UpdateRole(playerID, role); err != nil {
		return nil, err
	}
	return s.repo.GetPlayerByID(playerID)
}

// GetServerStats returns the headline server counters
func (s *PlayerService) GetServerStats() (*repositories.ServerStats, error) {
	return s.repo.GetServerStats()
}
