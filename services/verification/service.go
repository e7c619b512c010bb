package verification

import (
	"context"
	"errors"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/xorcare/pointer"

	"github.com/vmnc/esports-api/pkg/apperr"
	"github.com/vmnc/esports-api/pkg/models"
	timehelper "github.com/vmnc/esports-api/pkg/timeHelper"
	"github.com/vmnc/esports-api/repos/store"
	"github.com/vmnc/esports-api/services/eligibility"
)

// DefaultReviewer is recorded when an admin review names nobody.
const DefaultReviewer = "admin"

type VerificationService struct {
	store     store.Store
	validator *eligibility.Validator
	clock     clockwork.Clock
	log       zerolog.Logger
}

func NewVerificationService(s store.Store, validator *eligibility.Validator, clock clockwork.Clock, log zerolog.Logger) *VerificationService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &VerificationService{store: s, validator: validator, clock: clock, log: log}
}

// Submit stores a pending request unless the discord ID already has one.
func (s *VerificationService) Submit(ctx context.Context, body VerificationRequestBody) (models.VerificationRequest, error) {
	req := models.VerificationRequest{
		DiscordUsername: strings.TrimSpace(body.DiscordUsername),
		DiscordID:       strings.TrimSpace(body.DiscordID),
		Email:           strings.TrimSpace(body.Email),
		Status:          models.StatusPending,
	}

	var missing []string
	if req.DiscordUsername == "" {
		missing = append(missing, "discord_username")
	}
	if req.DiscordID == "" {
		missing = append(missing, "discord_id")
	}
	if len(missing) > 0 {
		return models.VerificationRequest{}, apperr.Validation("Missing required fields: %s", strings.Join(missing, ", "))
	}

	unlock := s.validator.Locker.Lock(eligibility.VerificationKeys(req.DiscordID)...)
	defer unlock()

	if err := s.validator.CheckVerification(ctx, req.DiscordID); err != nil {
		return models.VerificationRequest{}, err
	}

	req.RequestedAt = timehelper.FormatISO(s.clock.Now())
	id, err := s.store.InsertOne(ctx, store.VerificationRequests, req.Record())
	if errors.Is(err, store.ErrDuplicate) {
		return models.VerificationRequest{}, apperr.Conflict(eligibility.MsgVerificationPending)
	}
	if err != nil {
		return models.VerificationRequest{}, err
	}
	req.ID = id

	s.log.Info().Str("requestId", id).Str("discordId", req.DiscordID).Msg("verification request created")
	return req, nil
}

func (s *VerificationService) ForDiscordID(ctx context.Context, discordID string) ([]store.Record, error) {
	return s.store.Find(ctx, store.VerificationRequests,
		store.Filter{store.Eq("discord_id", discordID)}, store.Desc("requested_at"))
}

func (s *VerificationService) All(ctx context.Context) ([]store.Record, error) {
	return s.store.Find(ctx, store.VerificationRequests, nil, store.Desc("requested_at"))
}

// Review records an admin decision. Setting a request back to pending clears
// the review fields. Reopening is checked like a new submission so a discord
// ID never ends up with two pending requests.
func (s *VerificationService) Review(ctx context.Context, id string, review ReviewRequest) error {
	if !models.ValidStatus(review.Status) {
		return apperr.Validation("Invalid status: must be one of pending, approved, rejected")
	}
	reviewer := review.ReviewedBy
	if reviewer == nil || strings.TrimSpace(*reviewer) == "" {
		reviewer = pointer.String(DefaultReviewer)
	}

	if review.Status == models.StatusPending {
		return s.reopen(ctx, id)
	}

	ok, err := s.store.UpdateOne(ctx, store.VerificationRequests, id, models.ReviewFields(review.Status, reviewer, s.clock.Now()))
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("Verification request")
	}
	return nil
}

func (s *VerificationService) reopen(ctx context.Context, id string) error {
	current, err := s.store.Find(ctx, store.VerificationRequests, store.Filter{store.Eq(store.IDField, id)}, nil)
	if err != nil {
		return err
	}
	if len(current) == 0 {
		return apperr.NotFound("Verification request")
	}
	if current[0]["status"] == models.StatusPending {
		return nil
	}

	discordID, _ := current[0]["discord_id"].(string)
	unlock := s.validator.Locker.Lock(eligibility.VerificationKeys(discordID)...)
	defer unlock()

	if err := s.validator.CheckVerification(ctx, discordID); err != nil {
		return err
	}
	ok, err := s.store.UpdateOne(ctx, store.VerificationRequests, id, models.ReviewFields(models.StatusPending, nil, s.clock.Now()))
	if errors.Is(err, store.ErrDuplicate) {
		return apperr.Conflict(eligibility.MsgVerificationPending)
	}
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("Verification request")
	}
	return nil
}

func (s *VerificationService) Delete(ctx context.Context, id string) error {
	ok, err := s.store.DeleteOne(ctx, store.VerificationRequests, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("Verification request")
	}
	return nil
}
