package services

import (
	"fmt"
	"math"
	"time"

	"github.com/CreativeDragon1/Earn2Die/internal/models"
	"github.com/CreativeDragon1/Earn2Die/internal/notifier"
	"github.com/CreativeDragon1/Earn2Die/internal/repositories"
	"github.com/CreativeDragon1/Earn2Die/internal/security"
	"github.com/CreativeDragon1/Earn2Die/pkg/errors"
)

type WarService struct {
	repo      *repositories.WarRepository
	townRepo  *repositories.TownRepository
	announcer *notifier.Notifier
	now       func() time.Time
}

func NewWarService(repo *repositories.WarRepository, townRepo *repositories.TownRepository, announcer *notifier.Notifier) *WarService {
	return &WarService{
		repo:      repo,
		townRepo:  townRepo,
		announcer: announcer,
		now:       time.Now,
	}
}

type DeclareWarInput struct {
	Title           string `json:"title"`
	Reason          string `json:"reason"`
	ReasonDetails   string `json:"reasonDetails"`
	AttackingTownID uint   `json:"attackingTownId"`
	DefendingTownID uint   `json:"defendingTownId"`
}

type AddBattleInput struct {
	Name              string `json:"name"`
	Description       string `json:"description"`
	Victor            string `json:"victor"`
	Location          string `json:"location"`
	ArsonCommitted    bool   `json:"arsonCommitted"`
	ResidentialDamage bool   `json:"residentialDamage"`
	FarmDamage        bool   `json:"farmDamage"`
}

// Declare sends a formal war notice. The caller must lead the attacking
// town; both towns must be approved. Combat may not begin before the
// notice period elapses.
func (s *WarService) Declare(callerID uint, input DeclareWarInput) (*models.War, time.Time, error) {
	input.Title = security.SanitizeString(input.Title)
	if len(input.Title) < 3 || len(input.Title) > 100 {
		return nil, time.Time{}, errors.New(errors.ErrCodeValidation, "title must be 3 to 100 characters")
	}
	if !models.IsValidWarReason(input.Reason) {
		return nil, time.Time{}, errors.New(errors.ErrCodeValidation, "invalid war reason")
	}
	if len(input.ReasonDetails) > 1000 {
		return nil, time.Time{}, errors.New(errors.ErrCodeValidation, "reason details must be at most 1000 characters")
	}

	attackingTown, err := s.townRepo.GetTownByID(input.AttackingTownID)
	if err != nil {
		return nil, time.Time{}, errors.New(errors.ErrCodeNotFound, "attacking town not found")
	}
	if attackingTown.OwnerID != callerID {
		return nil, time.Time{}, errors.New(errors.ErrCodeForbidden, "you must be the leader of the attacking town")
	}
	if attackingTown.Status != models.TownStatusApproved {
		return nil, time.Time{}, errors.New(errors.ErrCodePreconditionFailed, "attacking town must have approved status to declare war")
	}
	if input.AttackingTownID == input.DefendingTownID {
		return nil, time.Time{}, errors.New(errors.ErrCodeValidation, "cannot declare war on your own town")
	}

	defendingTown, err := s.townRepo.GetTownByID(input.DefendingTownID)
	if err != nil || defendingTown.Status != models.TownStatusApproved {
		return nil, time.Time{}, errors.New(errors.ErrCodeNotFound, "defending town not found or not yet approved")
	}

	war := &models.War{
		Title:           input.Title,
		Reason:          input.Reason,
		ReasonDetails:   security.SanitizeProse(input.ReasonDetails),
		AttackerID:      callerID,
		AttackingTownID: input.AttackingTownID,
		DefendingTownID: input.DefendingTownID,
		NoticeSentAt:    s.now().UTC(),
	}
	if err := s.repo.CreateWar(war); err != nil {
		return nil, time.Time{}, err
	}

	earliestCombat := war.EarliestCombatAt()
	s.announcer.WarDeclared(attackingTown.Name, defendingTown.Name, earliestCombat)
	return war, earliestCombat, nil
}

// UpdateStatus transitions a war. Only the initiator or an admin may do
// so; the notice period gates activation unless the caller is an admin.
func (s *WarService) UpdateStatus(callerID uint, callerRole string, warID uint, status, outcome string) (*models.War, error) {
	war, err := s.repo.GetWarByID(warID)
	if err != nil {
		return nil, err
	}
	if war.AttackerID != callerID && callerRole != models.RoleAdmin {
		return nil, errors.New(errors.ErrCodeForbidden, "only the war initiator or admin can update status")
	}
	if war.Status == models.WarStatusEnded {
		return nil, errors.New(errors.ErrCodeConflict, "war has already ended")
	}

	switch status {
	case models.WarStatusActive, models.WarStatusCeasefire, models.WarStatusEnded:
	default:
		return nil, errors.New(errors.ErrCodeValidation, "invalid war status")
	}

	now := s.now().UTC()
	updates := map[string]interface{}{"status": status}

	if status == models.WarStatusActive {
		// Admins may override the notice timer, an explicit escape hatch
		if !war.NoticeElapsed(now) && callerRole != models.RoleAdmin {
			remaining := int(math.Ceil(war.EarliestCombatAt().Sub(now).Hours()))
			return nil, errors.New(errors.ErrCodePreconditionFailed,
				fmt.Sprintf("the %d-hour notice period has not elapsed; %d hour(s) remaining",
					int(models.WarNoticePeriod.Hours()), remaining))
		}
		updates["started_at"] = now
	}
	if status == models.WarStatusEnded {
		updates["ended_at"] = now
		if outcome != "" {
			updates["outcome"] = security.SanitizeProse(outcome)
		}
	}

	updated, err := s.repo.UpdateWarStatus(warID, updates)
	if err != nil {
		return nil, err
	}

	if status == models.WarStatusActive {
		s.announcer.WarActivated(war.AttackingTown.Name, war.DefendingTown.Name)
	}
	return updated, nil
}

// AddBattle records an engagement in an active war. War-crime flags never
// block the write: they are surfaced as advisories so the defending town
// can file a legal claim.
func (s *WarService) AddBattle(warID uint, input AddBattleInput) (*models.Battle, []string, error) {
	input.Name = security.SanitizeString(input.Name)
	if len(input.Name) < 2 || len(input.Name) > 100 {
		return nil, nil, errors.New(errors.ErrCodeValidation, "battle name must be 2 to 100 characters")
	}
	if input.Victor != "" && input.Victor != models.VictorAttacker && input.Victor != models.VictorDefender {
		return nil, nil, errors.New(errors.ErrCodeValidation, "victor must be attacker or defender")
	}

	war, err := s.repo.GetWarByID(warID)
	if err != nil {
		return nil, nil, err
	}
	if war.Status != models.WarStatusActive {
		return nil, nil, errors.New(errors.ErrCodePreconditionFailed, "battles can only be recorded during an active war")
	}

	battle := &models.Battle{
		WarID:             warID,
		Name:              input.Name,
		Description:       security.SanitizeProse(input.Description),
		Victor:            input.Victor,
		Location:          security.SanitizeString(input.Location),
		ArsonCommitted:    input.ArsonCommitted,
		ResidentialDamage: input.ResidentialDamage,
		FarmDamage:        input.FarmDamage,
	}
	if err := s.repo.AddBattle(battle); err != nil {
		return nil, nil, err
	}

	var warCrimes []string
	if input.ArsonCommitted {
		warCrimes = append(warCrimes, "arson against residential infrastructure")
	}
	if input.ResidentialDamage {
		warCrimes = append(warCrimes, "destruction of residential infrastructure")
	}
	if input.FarmDamage {
		warCrimes = append(warCrimes, "destruction of farm infrastructure")
	}
	return battle, warCrimes, nil
}

// GetWar returns a war with its battle log
func (s *WarService) GetWar(warID uint) (*models.War, []models.Battle, error) {
	war, err := s.repo.GetWarByID(warID)
	if err != nil {
		return nil, nil, err
	}
	battles, err := s.repo.GetBattles(warID)
	if err != nil {
		return nil, nil, err
	}
	return war, battles, nil
}

// ListWars lists wars, optionally filtered by status
func (s *WarService) ListWars(status string) ([]models.War, error) {
	return s.repo.ListWars(status)
}
