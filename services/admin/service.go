package admin

import (
	"context"
	"errors"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/vmnc/esports-api/pkg/apperr"
	"github.com/vmnc/esports-api/pkg/auth"
	"github.com/vmnc/esports-api/pkg/identifier"
	timehelper "github.com/vmnc/esports-api/pkg/timeHelper"
	"github.com/vmnc/esports-api/repos/store"
)

// MsgDuplicate is returned when a unique index rejects an admin write.
const MsgDuplicate = "Record conflicts with an existing record"

const updatedAtField = "updatedAt"

type AdminService struct {
	store store.Store
	gate  *auth.Gate
	clock clockwork.Clock
	log   zerolog.Logger
}

func NewAdminService(s store.Store, gate *auth.Gate, clock clockwork.Clock, log zerolog.Logger) *AdminService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &AdminService{store: s, gate: gate, clock: clock, log: log}
}

func (s *AdminService) Login(password string) (auth.Admin, error) {
	admin, err := s.gate.Login(password)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidCredentials) {
			s.log.Warn().Msg("admin login rejected")
		}
		return auth.Admin{}, err
	}
	s.log.Info().Time("expiresAt", admin.ExpiresAt).Msg("admin logged in")
	return admin, nil
}

func (s *AdminService) Logout(token string) {
	s.gate.Logout(token)
}

// Replace swaps the whole collection for records. Records without an
// identifier get a fresh one.
func (s *AdminService) Replace(ctx context.Context, collection string, records []store.Record) (int, error) {
	if !store.ValidCollection(collection) {
		return 0, apperr.InvalidCollection(collection)
	}
	if records == nil {
		return 0, apperr.Validation("Missing required fields: data")
	}

	normalized := make([]store.Record, 0, len(records))
	for i, record := range records {
		if record == nil {
			return 0, apperr.Validation("data[%d] must be an object", i)
		}
		if id := record.ID(); id != "" && !identifier.Valid(id) {
			return 0, apperr.Validation("data[%d]: invalid _id %q", i, id)
		}
		out, err := store.Normalize(collection, record)
		if err != nil {
			return 0, apperr.Validation("data[%d]: %v", i, err)
		}
		normalized = append(normalized, out)
	}

	n, err := store.ReplaceAll(ctx, s.store, collection, normalized)
	if errors.Is(err, store.ErrDuplicate) {
		return 0, apperr.Conflict(MsgDuplicate)
	}
	if err != nil {
		return 0, err
	}
	s.log.Info().Str("collection", collection).Int("count", n).Msg("collection replaced")
	return n, nil
}

// Create inserts record under a newly generated identifier.
func (s *AdminService) Create(ctx context.Context, collection string, record store.Record) (string, error) {
	if !store.ValidCollection(collection) {
		return "", apperr.InvalidCollection(collection)
	}
	out, err := store.Normalize(collection, record)
	if err != nil {
		return "", apperr.Validation("%v", err)
	}
	out = out.Clone()
	delete(out, store.IDField)

	id, err := s.store.InsertOne(ctx, collection, out)
	if errors.Is(err, store.ErrDuplicate) {
		return "", apperr.Conflict(MsgDuplicate)
	}
	if err != nil {
		return "", err
	}
	s.log.Info().Str("collection", collection).Str("id", id).Msg("record created")
	return id, nil
}

// Update sets fields on one record. The identifier itself cannot change.
// Records that carry updatedAt, and every registration, get it refreshed.
func (s *AdminService) Update(ctx context.Context, collection, id string, fields store.Record) error {
	if !store.ValidCollection(collection) {
		return apperr.InvalidCollection(collection)
	}
	out, err := store.Normalize(collection, fields)
	if err != nil {
		return apperr.Validation("%v", err)
	}

	current, err := s.store.Find(ctx, collection, store.Filter{store.Eq(store.IDField, id)}, nil)
	if err != nil {
		return err
	}
	if len(current) == 0 {
		return apperr.NotFound("Record")
	}
	if _, has := current[0][updatedAtField]; has || collection == store.TournamentRegistrations {
		out = out.Clone()
		out[updatedAtField] = timehelper.FormatISO(s.clock.Now())
	}

	ok, err := s.store.UpdateOne(ctx, collection, id, out)
	if errors.Is(err, store.ErrDuplicate) {
		return apperr.Conflict(MsgDuplicate)
	}
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("Record")
	}
	return nil
}

func (s *AdminService) Delete(ctx context.Context, collection, id string) error {
	if !store.ValidCollection(collection) {
		return apperr.InvalidCollection(collection)
	}
	ok, err := s.store.DeleteOne(ctx, collection, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("Record")
	}
	return nil
}
