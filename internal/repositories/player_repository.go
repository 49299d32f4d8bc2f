package repositories

import (
	"github.com/CreativeDragon1/Earn2Die/internal/models"
	"github.com/CreativeDragon1/Earn2Die/pkg/errors"
	"gorm.io/gorm"
)

type PlayerRepository struct {
	db *gorm.DB
}

func NewPlayerRepository(db *gorm.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// CreatePlayer creates a new player record
func (r *PlayerRepository) CreatePlayer(player *models.Player) error {
	result := r.db.Create(player)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to create player")
	}
	return nil
}

// GetPlayerByID retrieves a player by ID
func (r *PlayerRepository) GetPlayerByID(id uint) (*models.Player, error) {
	var player models.Player
	result := r.db.First(&player, id)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "player not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get player")
	}

	return &player, nil
}

// GetPlayerByExternalUID retrieves a player by identity-provider uid
func (r *PlayerRepository) GetPlayerByExternalUID(uid string) (*models.Player, error) {
	var player models.Player
	result := r.db.Where("external_uid = ?", uid).First(&player)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "player not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get player")
	}

	return &player, nil
}

// GetPlayerByUsername retrieves a player by display name
func (r *PlayerRepository) GetPlayerByUsername(username string) (*models.Player, error) {
	var player models.Player
	result := r.db.Where("username = ?", username).First(&player)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "player not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get player")
	}

	return &player, nil
}

// GetPlayersByUsernames resolves a list of usernames to player records.
// Missing names are simply absent from the result.
func (r *PlayerRepository) GetPlayersByUsernames(usernames []string) ([]models.Player, error) {
	var players []models.Player
	if err := r.db.Where("username IN ?", usernames).Find(&players).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to resolve usernames")
	}
	return players, nil
}

// SearchPlayers lists players ordered by reputation, optionally filtered
// by a username substring
func (r *PlayerRepository) SearchPlayers(search string, limit int) ([]models.Player, error) {
	query := r.db.Order("reputation DESC").Limit(limit)
	if search != "" {
		query = query.Where("username LIKE ?", "%"+search+"%")
	}

	var players []models.Player
	if err := query.Find(&players).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to search players")
	}
	return players, nil
}

// UpdateRole changes a player's server role
func (r *PlayerRepository) UpdateRole(playerID uint, role string) error {
	result := r.db.Model(&models.Player{}).Where("id = ?", playerID).Update("role", role)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to update role")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotFound, "player not found")
	}
	return nil
}

// ServerStats aggregates headline counts for the stats overview.
type ServerStats struct {
	PlayerCount  int64
	TownCount    int64
	ActiveWars   int64
	ActiveTrades int64
	OpenCases    int64
}

func (r *PlayerRepository) GetServerStats() (*ServerStats, error) {
	var stats ServerStats
	counts := []struct {
		query *gorm.DB
		dest  *int64
	}{
		{r.db.Model(&models.Player{}), &stats.PlayerCount},
		{r.db.Model(&models.Town{}), &stats.TownCount},
		{r.db.Model(&models.War{}).Where("status IN ?", []string{models.WarStatusNoticeSent, models.WarStatusActive}), &stats.ActiveWars},
		{r.db.Model(&models.TradeListing{}).Where("status = ?", models.ListingStatusActive), &stats.ActiveTrades},
		{r.db.Model(&models.LegalCase{}).Where("status <> ?", models.CaseStatusClosed), &stats.OpenCases},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to aggregate server stats")
		}
	}
	return &stats, nil
}
