package registrations

import (
	"context"
	"errors"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/vmnc/esports-api/pkg/apperr"
	"github.com/vmnc/esports-api/pkg/models"
	timehelper "github.com/vmnc/esports-api/pkg/timeHelper"
	"github.com/vmnc/esports-api/repos/store"
	"github.com/vmnc/esports-api/services/eligibility"
)

// MsgDuplicate is returned when the store's unique index catches a duplicate
// that slipped past the in-process check.
const MsgDuplicate = "This team or user is already registered for this tournament"

// Notifier receives successfully stored registrations.
type Notifier interface {
	Dispatch(reg models.Registration)
}

type RegistrationService struct {
	store     store.Store
	validator *eligibility.Validator
	notifier  Notifier
	clock     clockwork.Clock
	log       zerolog.Logger
}

func NewRegistrationService(s store.Store, validator *eligibility.Validator, notifier Notifier, clock clockwork.Clock, log zerolog.Logger) *RegistrationService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &RegistrationService{
		store:     s,
		validator: validator,
		notifier:  notifier,
		clock:     clock,
		log:       log,
	}
}

// Register validates and stores a registration, then hands it to the
// notifier. The notifier's outcome never affects the result.
func (s *RegistrationService) Register(ctx context.Context, req RegistrationRequest) (models.Registration, error) {
	reg := req.toModel()
	if err := eligibility.ValidateRegistration(reg); err != nil {
		return models.Registration{}, err
	}

	unlock := s.validator.Locker.Lock(eligibility.RegistrationKeys(reg.TournamentID, reg.TeamName, reg.UserID)...)
	defer unlock()

	if err := s.validator.CheckRegistration(ctx, reg.TournamentID, reg.TeamName, reg.UserID); err != nil {
		return models.Registration{}, err
	}

	now := timehelper.FormatISO(s.clock.Now())
	reg.Status = models.StatusPending
	reg.RegisteredAt = now
	reg.UpdatedAt = now

	id, err := s.store.InsertOne(ctx, store.TournamentRegistrations, reg.Record())
	if errors.Is(err, store.ErrDuplicate) {
		return models.Registration{}, apperr.Conflict(MsgDuplicate)
	}
	if err != nil {
		return models.Registration{}, err
	}
	reg.ID = id

	s.log.Info().
		Str("registrationId", id).
		Str("tournamentId", reg.TournamentID).
		Str("teamName", reg.TeamName).
		Msg("tournament registration created")

	if s.notifier != nil {
		s.notifier.Dispatch(reg)
	}
	return reg, nil
}

func (s *RegistrationService) ForTournament(ctx context.Context, tournamentID string) ([]store.Record, error) {
	return s.store.Find(ctx, store.TournamentRegistrations,
		store.Filter{store.Eq("tournamentId", tournamentID)}, store.Desc("registeredAt"))
}

func (s *RegistrationService) ForUser(ctx context.Context, userID string) ([]store.Record, error) {
	return s.store.Find(ctx, store.TournamentRegistrations,
		store.Filter{store.Eq("userId", userID)}, store.Desc("registeredAt"))
}

func (s *RegistrationService) All(ctx context.Context) ([]store.Record, error) {
	return s.store.Find(ctx, store.TournamentRegistrations, nil, store.Desc("registeredAt"))
}

// UpdateStatus moves a registration to status and refreshes updatedAt.
func (s *RegistrationService) UpdateStatus(ctx context.Context, id, status string) error {
	if !models.ValidStatus(status) {
		return apperr.Validation("Invalid status: must be one of pending, approved, rejected")
	}
	ok, err := s.store.UpdateOne(ctx, store.TournamentRegistrations, id, store.Record{
		"status":    status,
		"updatedAt": timehelper.FormatISO(s.clock.Now()),
	})
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("Registration")
	}
	return nil
}

func (s *RegistrationService) Delete(ctx context.Context, id string) error {
	ok, err := s.store.DeleteOne(ctx, store.TournamentRegistrations, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("Registration")
	}
	return nil
}
