package services

import (
	"testing"

	"github.com/CreativeDragon1/Earn2Die/internal/models"
	"github.com/CreativeDragon1/Earn2Die/internal/repositories"
	"github.com/CreativeDragon1/Earn2Die/pkg/errors"
	"gorm.io/gorm"
)

func newPlayerService(db *gorm.DB) *PlayerService {
	return NewPlayerService(repositories.NewPlayerRepository(db), repositories.NewTownRepository(db))
}

func TestPlayerService_SyncProfile(t *testing.T) {
	db := newTestDB(t)
	players := newPlayerService(db)

	// First sync creates the player record
	player, membership, created, err := players.SyncProfile("uid-steve", "steve@example.com", SyncProfileInput{
		Username: "steve",
	})
	if err != nil {
		t.Fatalf("SyncProfile() error = %v", err)
	}
	if !created {
		t.Error("created = false on first sync")
	}
	if player.Role != models.RolePlayer {
		t.Errorf("Role = %q, want %q", player.Role, models.RolePlayer)
	}
	if membership != nil {
		t.Error("new player should have no town membership")
	}

	// Later syncs return the existing record untouched
	again, _, created, err := players.SyncProfile("uid-steve", "steve@example.com", SyncProfileInput{
		Username: "different_name",
	})
	if err != nil {
		t.Fatalf("second SyncProfile() error = %v", err)
	}
	if created {
		t.Error("created = true on repeat sync")
	}
	if again.ID != player.ID || again.Username != "steve" {
		t.Errorf("repeat sync returned %d/%q, want %d/%q", again.ID, again.Username, player.ID, "steve")
	}
}

func TestPlayerService_SyncProfile_Validation(t *testing.T) {
	db := newTestDB(t)
	players := newPlayerService(db)
	seedPlayer(t, db, "taken", 0)

	tests := []struct {
		name     string
		uid      string
		username string
		wantCode string
	}{
		{
			name:     "Invalid username format",
			uid:      "uid-new-1",
			username: "bad name!",
			wantCode: errors.ErrCodeValidation,
		},
		{
			name:     "Username already taken",
			uid:      "uid-new-2",
			username: "taken",
			wantCode: errors.ErrCodeConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := players.SyncProfile(tt.uid, "new@example.com", SyncProfileInput{Username: tt.username})
			if errors.Code(err) != tt.wantCode {
				t.Errorf("SyncProfile() error code = %v, want %v (err: %v)", errors.Code(err), tt.wantCode, err)
			}
		})
	}
}

func TestPlayerService_UpdateRole(t *testing.T) {
	db := newTestDB(t)
	players := newPlayerService(db)
	target := seedPlayer(t, db, "target", 0)

	if _, err := players.UpdateRole(models.RolePlayer, target.ID, models.RoleMod); errors.Code(err) != errors.ErrCodeForbidden {
		t.Errorf("UpdateRole() as player error code = %v, want %v", errors.Code(err), errors.ErrCodeForbidden)
	}
	if _, err := players.UpdateRole(models.RoleAdmin, target.ID, "warlord"); errors.Code(err) != errors.ErrCodeValidation {
		t.Errorf("UpdateRole() invalid role error code = %v, want %v", errors.Code(err), errors.ErrCodeValidation)
	}

	updated, err := players.UpdateRole(models.RoleAdmin, target.ID, models.RoleMod)
	if err != nil {
		t.Fatalf("UpdateRole() error = %v", err)
	}
	if updated.Role != models.RoleMod {
		t.Errorf("Role = %q, want %q", updated.Role, models.RoleMod)
	}
}

func TestPlayerService_GetServerStats(t *testing.T) {
	db := newTestDB(t)
	players := newPlayerService(db)
	founders := seedFounders(t, db, "river_", 5)
	foundApprovedTown(t, db, "Rivertown", founders)

	stats, err := players.GetServerStats()
	if err != nil {
		t.Fatalf("GetServerStats() error = %v", err)
	}
	if stats.PlayerCount != 5 {
		t.Errorf("PlayerCount = %d, want 5", stats.PlayerCount)
	}
	if stats.TownCount != 1 {
		t.Errorf("TownCount = %d, want 1", stats.TownCount)
	}
}
