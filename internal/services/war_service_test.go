package services

import (
	"testing"
	"time"

	"github.com/CreativeDragon1/Earn2Die/internal/models"
	"github.com/CreativeDragon1/Earn2Die/internal/repositories"
	"github.com/CreativeDragon1/Earn2Die/pkg/errors"
	"gorm.io/gorm"
)

func newWarService(db *gorm.DB) *WarService {
	return NewWarService(repositories.NewWarRepository(db), repositories.NewTownRepository(db), nil)
}

// warFixture seeds two approved towns and returns the service plus the
// leader of the attacking town.
func warFixture(t *testing.T, db *gorm.DB) (*WarService, *models.Player, *models.Town, *models.Town) {
	t.Helper()

	attackers := seedFounders(t, db, "axe_", 5)
	defenders := seedFounders(t, db, "oak_", 5)
	attacking := foundApprovedTown(t, db, "Axehold", attackers)
	defending := foundApprovedTown(t, db, "Oakvale", defenders)

	return newWarService(db), attackers[0], attacking, defending
}

func TestWarService_Declare(t *testing.T) {
	db := newTestDB(t)
	wars, leader, attacking, defending := warFixture(t, db)

	noticeTime := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	wars.now = func() time.Time { return noticeTime }

	war, earliestCombat, err := wars.Declare(leader.ID, DeclareWarInput{
		Title:           "The Harvest War",
		Reason:          models.WarReasonResourceInvasion,
		AttackingTownID: attacking.ID,
		DefendingTownID: defending.ID,
	})
	if err != nil {
		t.Fatalf("Declare() error = %v", err)
	}

	if war.Status != models.WarStatusNoticeSent {
		t.Errorf("Status = %q, want %q", war.Status, models.WarStatusNoticeSent)
	}
	if want := noticeTime.Add(24 * time.Hour); !earliestCombat.Equal(want) {
		t.Errorf("earliestCombat = %v, want %v", earliestCombat, want)
	}
}

func TestWarService_Declare_Validation(t *testing.T) {
	db := newTestDB(t)
	wars, leader, attacking, defending := warFixture(t, db)
	outsider := seedPlayer(t, db, "outsider", 0)

	tests := []struct {
		name     string
		callerID uint
		input    DeclareWarInput
		wantCode string
	}{
		{
			name:     "Caller does not lead the attacking town",
			callerID: outsider.ID,
			input: DeclareWarInput{
				Title:           "Not my war",
				Reason:          models.WarReasonOther,
				AttackingTownID: attacking.ID,
				DefendingTownID: defending.ID,
			},
			wantCode: errors.ErrCodeForbidden,
		},
		{
			name:     "War on own town",
			callerID: leader.ID,
			input: DeclareWarInput{
				Title:           "Civil war",
				Reason:          models.WarReasonOther,
				AttackingTownID: attacking.ID,
				DefendingTownID: attacking.ID,
			},
			wantCode: errors.ErrCodeValidation,
		},
		{
			name:     "Unknown defending town",
			callerID: leader.ID,
			input: DeclareWarInput{
				Title:           "Ghost war",
				Reason:          models.WarReasonOther,
				AttackingTownID: attacking.ID,
				DefendingTownID: 9999,
			},
			wantCode: errors.ErrCodeNotFound,
		},
		{
			name:     "Invalid reason",
			callerID: leader.ID,
			input: DeclareWarInput{
				Title:           "Why not",
				Reason:          "boredom",
				AttackingTownID: attacking.ID,
				DefendingTownID: defending.ID,
			},
			wantCode: errors.ErrCodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := wars.Declare(tt.callerID, tt.input)
			if errors.Code(err) != tt.wantCode {
				t.Errorf("Declare() error code = %v, want %v (err: %v)", errors.Code(err), tt.wantCode, err)
			}
		})
	}
}

func TestWarService_ActivationGatedByNoticePeriod(t *testing.T) {
	db := newTestDB(t)
	wars, leader, attacking, defending := warFixture(t, db)

	noticeTime := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	wars.now = func() time.Time { return noticeTime }

	war, _, err := wars.Declare(leader.ID, DeclareWarInput{
		Title:           "The Harvest War",
		Reason:          models.WarReasonResourceInvasion,
		AttackingTownID: attacking.ID,
		DefendingTownID: defending.ID,
	})
	if err != nil {
		t.Fatalf("Declare() error = %v", err)
	}

	// One minute short of the deadline, activation must fail
	wars.now = func() time.Time { return noticeTime.Add(24*time.Hour - time.Minute) }
	_, err = wars.UpdateStatus(leader.ID, models.RolePlayer, war.ID, models.WarStatusActive, "")
	if errors.Code(err) != errors.ErrCodePreconditionFailed {
		t.Fatalf("early activation error code = %v, want %v (err: %v)", errors.Code(err), errors.ErrCodePreconditionFailed, err)
	}

	// At the deadline it succeeds
	wars.now = func() time.Time { return noticeTime.Add(24 * time.Hour) }
	activated, err := wars.UpdateStatus(leader.ID, models.RolePlayer, war.ID, models.WarStatusActive, "")
	if err != nil {
		t.Fatalf("activation at deadline error = %v", err)
	}
	if activated.Status != models.WarStatusActive {
		t.Errorf("Status = %q, want %q", activated.Status, models.WarStatusActive)
	}
	if activated.StartedAt == nil {
		t.Error("StartedAt not stamped on activation")
	}
}

func TestWarService_AdminOverridesNoticePeriod(t *testing.T) {
	db := newTestDB(t)
	wars, leader, attacking, defending := warFixture(t, db)

	noticeTime := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	wars.now = func() time.Time { return noticeTime }

	war, _, err := wars.Declare(leader.ID, DeclareWarInput{
		Title:           "The Harvest War",
		Reason:          models.WarReasonResourceInvasion,
		AttackingTownID: attacking.ID,
		DefendingTownID: defending.ID,
	})
	if err != nil {
		t.Fatalf("Declare() error = %v", err)
	}

	wars.now = func() time.Time { return noticeTime.Add(time.Hour) }
	admin := seedPlayer(t, db, "overseer", 0)
	if _, err := wars.UpdateStatus(admin.ID, models.RoleAdmin, war.ID, models.WarStatusActive, ""); err != nil {
		t.Fatalf("admin early activation error = %v", err)
	}
}

func TestWarService_EndedIsTerminal(t *testing.T) {
	db := newTestDB(t)
	wars, leader, attacking, defending := warFixture(t, db)

	noticeTime := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	wars.now = func() time.Time { return noticeTime }

	war, _, err := wars.Declare(leader.ID, DeclareWarInput{
		Title:           "The Harvest War",
		Reason:          models.WarReasonResourceInvasion,
		AttackingTownID: attacking.ID,
		DefendingTownID: defending.ID,
	})
	if err != nil {
		t.Fatalf("Declare() error = %v", err)
	}

	ended, err := wars.UpdateStatus(leader.ID, models.RolePlayer, war.ID, models.WarStatusEnded, "White peace")
	if err != nil {
		t.Fatalf("UpdateStatus(ended) error = %v", err)
	}
	if ended.EndedAt == nil {
		t.Error("EndedAt not stamped")
	}

	_, err = wars.UpdateStatus(leader.ID, models.RolePlayer, war.ID, models.WarStatusActive, "")
	if errors.Code(err) != errors.ErrCodeConflict {
		t.Errorf("reopening ended war error code = %v, want %v", errors.Code(err), errors.ErrCodeConflict)
	}
}

func TestWarService_AddBattle(t *testing.T) {
	db := newTestDB(t)
	wars, leader, attacking, defending := warFixture(t, db)

	noticeTime := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	wars.now = func() time.Time { return noticeTime }

	war, _, err := wars.Declare(leader.ID, DeclareWarInput{
		Title:           "The Harvest War",
		Reason:          models.WarReasonResourceInvasion,
		AttackingTownID: attacking.ID,
		DefendingTownID: defending.ID,
	})
	if err != nil {
		t.Fatalf("Declare() error = %v", err)
	}

	// Battles cannot be recorded during the notice period
	_, _, err = wars.AddBattle(war.ID, AddBattleInput{Name: "Ambush at the mill"})
	if errors.Code(err) != errors.ErrCodePreconditionFailed {
		t.Fatalf("AddBattle() before activation error code = %v, want %v", errors.Code(err), errors.ErrCodePreconditionFailed)
	}

	wars.now = func() time.Time { return noticeTime.Add(24 * time.Hour) }
	if _, err := wars.UpdateStatus(leader.ID, models.RolePlayer, war.ID, models.WarStatusActive, ""); err != nil {
		t.Fatalf("activation error = %v", err)
	}

	battle, warCrimes, err := wars.AddBattle(war.ID, AddBattleInput{
		Name:           "Ambush at the mill",
		Victor:         models.VictorAttacker,
		ArsonCommitted: true,
		FarmDamage:     true,
	})
	if err != nil {
		t.Fatalf("AddBattle() error = %v", err)
	}
	if battle.WarID != war.ID {
		t.Errorf("battle WarID = %d, want %d", battle.WarID, war.ID)
	}
	if len(warCrimes) != 2 {
		t.Errorf("war crime advisories = %d, want 2 (%v)", len(warCrimes), warCrimes)
	}

	updated, battles, err := wars.GetWar(war.ID)
	if err != nil {
		t.Fatalf("GetWar() error = %v", err)
	}
	if updated.AttackerScore != 1 || updated.DefenderScore != 0 {
		t.Errorf("score = %d:%d, want 1:0", updated.AttackerScore, updated.DefenderScore)
	}
	if len(battles) != 1 {
		t.Errorf("battle count = %d, want 1", len(battles))
	}
}
