package eligibility

import (
	"context"
	"strings"

	"github.com/vmnc/esports-api/pkg/apperr"
	"github.com/vmnc/esports-api/pkg/keylock"
	"github.com/vmnc/esports-api/pkg/models"
	"github.com/vmnc/esports-api/repos/store"
)

// Messages returned to clients on conflicts.
const (
	MsgTeamNameTaken       = "Team name already registered for this tournament"
	MsgUserRegistered      = "You have already registered for this tournament"
	MsgVerificationPending = "You already have a pending verification request"
)

// Validator runs the uniqueness checks that guard inserts into the
// registration and verification collections.
//
// Checks are read-then-write against the store, so callers take the keys
// returned by RegistrationKeys / VerificationKeys on Locker around the check
// and the insert. That closes the race within one process; a multi-instance
// deployment relies on the store's unique indexes instead.
type Validator struct {
	store  store.Store
	Locker keylock.Locker
}

func NewValidator(s store.Store) *Validator {
	return &Validator{store: s}
}

// ValidateRegistration checks required fields are present and non-empty.
// teamMembers counts as empty when every entry is blank.
func ValidateRegistration(reg models.Registration) error {
	var missing []string
	if strings.TrimSpace(reg.TournamentID) == "" {
		missing = append(missing, "tournamentId")
	}
	if strings.TrimSpace(reg.TeamName) == "" {
		missing = append(missing, "teamName")
	}
	if len(models.CleanMembers(reg.TeamMembers)) == 0 {
		missing = append(missing, "teamMembers")
	}
	if strings.TrimSpace(reg.CaptainDiscord) == "" {
		missing = append(missing, "captainDiscord")
	}
	if len(missing) > 0 {
		return apperr.Validation("Missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// RegistrationKeys are the lock keys covering a registration's unique tuples.
func RegistrationKeys(tournamentID, teamName, userID string) []string {
	keys := []string{"registration|" + tournamentID + "|team|" + teamName}
	if userID != "" {
		keys = append(keys, "registration|"+tournamentID+"|user|"+userID)
	}
	return keys
}

// VerificationKeys is the lock key covering a pending verification.
func VerificationKeys(discordID string) []string {
	return []string{"verification|" + discordID}
}

// CheckRegistration rejects a team name already used in the tournament, then
// a user already registered for it. An empty userID skips the user check.
func (v *Validator) CheckRegistration(ctx context.Context, tournamentID, teamName, userID string) error {
	taken, err := v.exists(ctx, store.TournamentRegistrations, store.Filter{
		store.Eq("tournamentId", tournamentID),
		store.Eq("teamName", teamName),
	})
	if err != nil {
		return err
	}
	if taken {
		return apperr.Conflict(MsgTeamNameTaken)
	}

	if userID == "" {
		return nil
	}
	registered, err := v.exists(ctx, store.TournamentRegistrations, store.Filter{
		store.Eq("tournamentId", tournamentID),
		store.Eq("userId", userID),
	})
	if err != nil {
		return err
	}
	if registered {
		return apperr.Conflict(MsgUserRegistered)
	}
	return nil
}

// CheckVerification rejects a discord ID that already has a pending request.
func (v *Validator) CheckVerification(ctx context.Context, discordID string) error {
	pending, err := v.exists(ctx, store.VerificationRequests, store.Filter{
		store.Eq("discord_id", discordID),
		store.Eq("status", models.StatusPending),
	})
	if err != nil {
		return err
	}
	if pending {
		return apperr.Conflict(MsgVerificationPending)
	}
	return nil
}

func (v *Validator) exists(ctx context.Context, collection string, filter store.Filter) (bool, error) {
	found, err := v.store.Find(ctx, collection, filter, nil)
	if err != nil {
		return false, err
	}
	return len(found) > 0, nil
}
