package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/CreativeDragon1/Earn2Die/internal/models"
	"github.com/CreativeDragon1/Earn2Die/internal/repositories"
)

// newTestDB opens an isolated in-memory database with the full schema.
// A single connection keeps every session on the same memory store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.Player{},
		&models.Town{},
		&models.TownMember{},
		&models.War{},
		&models.Battle{},
		&models.TradeListing{},
		&models.TradeTransaction{},
		&models.LegalCase{},
		&models.Verdict{},
		&models.CaseComment{},
		&models.EspionageReport{},
	); err != nil {
		t.Fatalf("failed to migrate test schema: %v", err)
	}

	return db
}

func seedPlayer(t *testing.T, db *gorm.DB, username string, balance int64) *models.Player {
	t.Helper()

	player := &models.Player{
		ExternalUID: "uid-" + username,
		Username:    username,
		Role:        models.RolePlayer,
		Balance:     balance,
	}
	if err := db.Create(player).Error; err != nil {
		t.Fatalf("failed to seed player %s: %v", username, err)
	}
	return player
}

func newTownService(db *gorm.DB) *TownService {
	return NewTownService(repositories.NewTownRepository(db), repositories.NewPlayerRepository(db), nil)
}

// foundApprovedTown runs the full application and approval flow so the
// returned town has registered members and derived fields.
func foundApprovedTown(t *testing.T, db *gorm.DB, name string, founders []*models.Player) *models.Town {
	t.Helper()

	towns := newTownService(db)
	usernames := make([]string, 0, len(founders))
	for _, f := range founders {
		usernames = append(usernames, f.Username)
	}

	town, _, err := towns.Apply(founders[0].ID, ApplyTownInput{
		Name:             name,
		Coordinates:      "100,64,-200",
		FounderUsernames: usernames,
	})
	if err != nil {
		t.Fatalf("failed to apply for town %s: %v", name, err)
	}

	approved, err := towns.Approve(models.RoleAdmin, town.ID)
	if err != nil {
		t.Fatalf("failed to approve town %s: %v", name, err)
	}
	return approved
}

func seedFounders(t *testing.T, db *gorm.DB, prefix string, n int) []*models.Player {
	t.Helper()

	founders := make([]*models.Player, 0, n)
	for i := 0; i < n; i++ {
		founders = append(founders, seedPlayer(t, db, prefix+string(rune('a'+i)), 0))
	}
	return founders
}
