package services

import (
	"strings"
	"testing"

	"github.com/CreativeDragon1/Earn2Die/internal/models"
	"github.com/CreativeDragon1/Earn2Die/pkg/errors"
)

func TestTownService_Apply_Validation(t *testing.T) {
	db := newTestDB(t)
	towns := newTownService(db)
	applicant := seedPlayer(t, db, "applicant", 0)

	tests := []struct {
		name     string
		input    ApplyTownInput
		wantCode string
	}{
		{
			name: "Too few founders",
			input: ApplyTownInput{
				Name:             "Rivertown",
				Coordinates:      "0,64,0",
				FounderUsernames: []string{"applicant", "x1", "x2"},
			},
			wantCode: errors.ErrCodeValidation,
		},
		{
			name: "Name too short",
			input: ApplyTownInput{
				Name:             "R",
				Coordinates:      "0,64,0",
				FounderUsernames: []string{"applicant", "x1", "x2", "x3", "x4"},
			},
			wantCode: errors.ErrCodeValidation,
		},
		{
			name: "Missing coordinates",
			input: ApplyTownInput{
				Name:             "Rivertown",
				FounderUsernames: []string{"applicant", "x1", "x2", "x3", "x4"},
			},
			wantCode: errors.ErrCodeValidation,
		},
		{
			name: "Unknown founder username",
			input: ApplyTownInput{
				Name:             "Rivertown",
				Coordinates:      "0,64,0",
				FounderUsernames: []string{"applicant", "ghost1", "ghost2", "ghost3", "ghost4"},
			},
			wantCode: errors.ErrCodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := towns.Apply(applicant.ID, tt.input)
			if errors.Code(err) != tt.wantCode {
				t.Errorf("Apply() error code = %v, want %v (err: %v)", errors.Code(err), tt.wantCode, err)
			}
		})
	}
}

func TestTownService_Apply_ApplicantMustBeFounder(t *testing.T) {
	db := newTestDB(t)
	towns := newTownService(db)
	applicant := seedPlayer(t, db, "applicant", 0)
	seedFounders(t, db, "founder_", 5)

	_, _, err := towns.Apply(applicant.ID, ApplyTownInput{
		Name:             "Rivertown",
		Coordinates:      "0,64,0",
		FounderUsernames: []string{"founder_a", "founder_b", "founder_c", "founder_d", "founder_e"},
	})
	if errors.Code(err) != errors.ErrCodeValidation {
		t.Errorf("Apply() error code = %v, want %v", errors.Code(err), errors.ErrCodeValidation)
	}
}

func TestTownService_ApproveEnrollsFounders(t *testing.T) {
	db := newTestDB(t)
	founders := seedFounders(t, db, "river_", 5)

	town := foundApprovedTown(t, db, "Rivertown", founders)

	if town.Status != models.TownStatusApproved {
		t.Errorf("Status = %q, want %q", town.Status, models.TownStatusApproved)
	}
	if town.Population != 5 {
		t.Errorf("Population = %d, want 5", town.Population)
	}
	if want := models.ComputeTerritory(5); town.Territory != want {
		t.Errorf("Territory = %d, want %d", town.Territory, want)
	}
	// Approval alone never grants protection: the requirement flags are unset
	if town.ProtectionStatus {
		t.Error("ProtectionStatus = true for a town with no wall, path or constitution")
	}

	var members []models.TownMember
	if err := db.Where("town_id = ?", town.ID).Find(&members).Error; err != nil {
		t.Fatalf("failed to load members: %v", err)
	}
	if len(members) != 5 {
		t.Fatalf("member count = %d, want 5", len(members))
	}

	leaders := 0
	for _, m := range members {
		if m.Role == models.TownRoleLeader {
			leaders++
		}
	}
	if leaders != 1 {
		t.Errorf("leader count = %d, want 1", leaders)
	}
}

func TestTownService_Approve_RequiresAdmin(t *testing.T) {
	db := newTestDB(t)
	towns := newTownService(db)

	_, err := towns.Approve(models.RolePlayer, 1)
	if errors.Code(err) != errors.ErrCodeForbidden {
		t.Errorf("Approve() error code = %v, want %v", errors.Code(err), errors.ErrCodeForbidden)
	}
}

func TestTownService_MembershipIsPermanent(t *testing.T) {
	db := newTestDB(t)
	towns := newTownService(db)
	founders := seedFounders(t, db, "river_", 5)
	foundApprovedTown(t, db, "Rivertown", founders)

	// A registered member cannot apply to found a second town
	extra := seedFounders(t, db, "hill_", 4)
	usernames := []string{founders[0].Username}
	for _, p := range extra {
		usernames = append(usernames, p.Username)
	}
	_, _, err := towns.Apply(founders[0].ID, ApplyTownInput{
		Name:             "Hilltop",
		Coordinates:      "500,70,500",
		FounderUsernames: usernames,
	})
	if errors.Code(err) != errors.ErrCodeConflict {
		t.Errorf("Apply() by member error code = %v, want %v", errors.Code(err), errors.ErrCodeConflict)
	}

	// Nor can they be added to another approved town
	hillFounders := seedFounders(t, db, "top_", 5)
	hilltop := foundApprovedTown(t, db, "Hilltop", hillFounders)

	_, err = towns.AddMember(models.RoleAdmin, hilltop.ID, founders[1].Username)
	if errors.Code(err) != errors.ErrCodeConflict {
		t.Errorf("AddMember() error code = %v, want %v", errors.Code(err), errors.ErrCodeConflict)
	}
}

func TestTownService_ApproveFounderRace(t *testing.T) {
	db := newTestDB(t)
	towns := newTownService(db)

	// Two pending applications share a founder; whichever is approved
	// first claims them, the second approval must fail and name them.
	shared := seedPlayer(t, db, "turncoat", 0)
	riverRest := seedFounders(t, db, "river_", 4)
	hillRest := seedFounders(t, db, "hill_", 4)

	riverNames := []string{shared.Username}
	for _, p := range riverRest {
		riverNames = append(riverNames, p.Username)
	}
	hillNames := []string{shared.Username}
	for _, p := range hillRest {
		hillNames = append(hillNames, p.Username)
	}

	river, _, err := towns.Apply(shared.ID, ApplyTownInput{
		Name: "Rivertown", Coordinates: "0,64,0", FounderUsernames: riverNames,
	})
	if err != nil {
		t.Fatalf("first Apply() error = %v", err)
	}
	hill, _, err := towns.Apply(shared.ID, ApplyTownInput{
		Name: "Hilltop", Coordinates: "500,70,500", FounderUsernames: hillNames,
	})
	if err != nil {
		t.Fatalf("second Apply() error = %v", err)
	}

	if _, err := towns.Approve(models.RoleAdmin, river.ID); err != nil {
		t.Fatalf("first Approve() error = %v", err)
	}

	_, err = towns.Approve(models.RoleAdmin, hill.ID)
	if errors.Code(err) != errors.ErrCodeConflict {
		t.Fatalf("second Approve() error code = %v, want %v (err: %v)", errors.Code(err), errors.ErrCodeConflict, err)
	}
	if appErr, ok := err.(*errors.AppError); ok && !strings.Contains(appErr.Message, "turncoat") {
		t.Errorf("conflict message %q does not name the claimed founder", appErr.Message)
	}

	// The failed approval must not have enrolled anyone
	var count int64
	db.Model(&models.TownMember{}).Where("town_id = ?", hill.ID).Count(&count)
	if count != 0 {
		t.Errorf("failed approval enrolled %d members, want 0", count)
	}
}

func TestTownService_AddMember_RequiresApprovedTown(t *testing.T) {
	db := newTestDB(t)
	towns := newTownService(db)
	founders := seedFounders(t, db, "river_", 5)
	newcomer := seedPlayer(t, db, "newcomer", 0)

	town, _, err := towns.Apply(founders[0].ID, ApplyTownInput{
		Name:             "Rivertown",
		Coordinates:      "0,64,0",
		FounderUsernames: []string{"river_a", "river_b", "river_c", "river_d", "river_e"},
	})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	_, err = towns.AddMember(models.RoleAdmin, town.ID, newcomer.Username)
	if errors.Code(err) != errors.ErrCodePreconditionFailed {
		t.Errorf("AddMember() error code = %v, want %v", errors.Code(err), errors.ErrCodePreconditionFailed)
	}
}

func TestTownService_AddMemberGrowsTerritory(t *testing.T) {
	db := newTestDB(t)
	towns := newTownService(db)
	founders := seedFounders(t, db, "river_", 5)
	town := foundApprovedTown(t, db, "Rivertown", founders)
	newcomer := seedPlayer(t, db, "newcomer", 0)

	if _, err := towns.AddMember(models.RoleAdmin, town.ID, newcomer.Username); err != nil {
		t.Fatalf("AddMember() error = %v", err)
	}

	updated, _, err := towns.GetTown(models.RoleAdmin, town.ID)
	if err != nil {
		t.Fatalf("GetTown() error = %v", err)
	}
	if updated.Population != 6 {
		t.Errorf("Population = %d, want 6", updated.Population)
	}
	if want := models.ComputeTerritory(6); updated.Territory != want {
		t.Errorf("Territory = %d, want %d", updated.Territory, want)
	}
}

func TestTownService_UpdateRecomputesProtection(t *testing.T) {
	db := newTestDB(t)
	towns := newTownService(db)
	founders := seedFounders(t, db, "river_", 5)
	town := foundApprovedTown(t, db, "Rivertown", founders)

	yes := true
	updated, err := towns.Update(founders[0].ID, models.RolePlayer, town.ID, UpdateTownInput{
		HasWall:           &yes,
		HasPathConnection: &yes,
		HasConstitution:   &yes,
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !updated.ProtectionStatus {
		t.Error("ProtectionStatus = false after meeting every requirement")
	}

	no := false
	updated, err = towns.Update(founders[0].ID, models.RolePlayer, town.ID, UpdateTownInput{HasWall: &no})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.ProtectionStatus {
		t.Error("ProtectionStatus = true after losing the wall")
	}
}

func TestTownService_Update_RequiresOwnerOrAdmin(t *testing.T) {
	db := newTestDB(t)
	towns := newTownService(db)
	founders := seedFounders(t, db, "river_", 5)
	town := foundApprovedTown(t, db, "Rivertown", founders)
	stranger := seedPlayer(t, db, "stranger", 0)

	motto := "Ours now"
	_, err := towns.Update(stranger.ID, models.RolePlayer, town.ID, UpdateTownInput{Motto: &motto})
	if errors.Code(err) != errors.ErrCodeForbidden {
		t.Errorf("Update() error code = %v, want %v", errors.Code(err), errors.ErrCodeForbidden)
	}
}

func TestTownService_GetTown_HidesPendingFromPlayers(t *testing.T) {
	db := newTestDB(t)
	towns := newTownService(db)
	founders := seedFounders(t, db, "river_", 5)

	town, _, err := towns.Apply(founders[0].ID, ApplyTownInput{
		Name:             "Rivertown",
		Coordinates:      "0,64,0",
		FounderUsernames: []string{"river_a", "river_b", "river_c", "river_d", "river_e"},
	})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if _, _, err := towns.GetTown(models.RolePlayer, town.ID); errors.Code(err) != errors.ErrCodeNotFound {
		t.Errorf("GetTown() as player error code = %v, want %v", errors.Code(err), errors.ErrCodeNotFound)
	}
	if _, _, err := towns.GetTown(models.RoleAdmin, town.ID); err != nil {
		t.Errorf("GetTown() as admin error = %v", err)
	}
}
