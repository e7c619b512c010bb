package eligibility

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmnc/esports-api/pkg/apperr"
	"github.com/vmnc/esports-api/pkg/models"
	"github.com/vmnc/esports-api/repos/store"
)

func TestValidateRegistration(t *testing.T) {
	ok := models.Registration{TournamentID: "t1", TeamName: "Alpha", TeamMembers: []string{"a"}, CaptainDiscord: "cap#1"}
	assert.NoError(t, ValidateRegistration(ok))

	missing := models.Registration{TournamentID: "t1", TeamMembers: []string{"", " "}}
	err := ValidateRegistration(missing)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	assert.Equal(t, "Missing required fields: teamName, teamMembers, captainDiscord", err.Error())
}

func TestCheckRegistration(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	v := NewValidator(s)

	require.NoError(t, v.CheckRegistration(ctx, "t1", "Alpha", "u1"))
	_, err := s.InsertOne(ctx, store.TournamentRegistrations, store.Record{"tournamentId": "t1", "teamName": "Alpha", "userId": "u1"})
	require.NoError(t, err)

	err = v.CheckRegistration(ctx, "t1", "Alpha", "u2")
	assert.True(t, errors.Is(err, apperr.ErrConflict))
	assert.Equal(t, MsgTeamNameTaken, err.Error())

	err = v.CheckRegistration(ctx, "t1", "Bravo", "u1")
	assert.True(t, errors.Is(err, apperr.ErrConflict))
	assert.Equal(t, MsgUserRegistered, err.Error())

	assert.NoError(t, v.CheckRegistration(ctx, "t2", "Alpha", "u1"), "other tournaments are independent")
	assert.NoError(t, v.CheckRegistration(ctx, "t1", "Bravo", ""), "anonymous submissions skip the user check")
}

func TestCheckVerification(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	v := NewValidator(s)

	id, err := s.InsertOne(ctx, store.VerificationRequests, store.Record{"discord_id": "42", "status": models.StatusPending})
	require.NoError(t, err)

	err = v.CheckVerification(ctx, "42")
	assert.True(t, errors.Is(err, apperr.ErrConflict))
	assert.NoError(t, v.CheckVerification(ctx, "43"))

	_, err = s.UpdateOne(ctx, store.VerificationRequests, id, store.Record{"status": models.StatusApproved})
	require.NoError(t, err)
	assert.NoError(t, v.CheckVerification(ctx, "42"))
}

func TestCheck_PropagatesStorageErrors(t *testing.T) {
	s := store.NewMemory()
	require.NoError(t, s.Close(context.Background()))
	v := NewValidator(s)

	err := v.CheckRegistration(context.Background(), "t1", "Alpha", "u1")
	assert.True(t, errors.Is(err, store.ErrUnavailable))
	err = v.CheckVerification(context.Background(), "42")
	assert.True(t, errors.Is(err, store.ErrUnavailable))
}

func TestKeys(t *testing.T) {
	assert.Len(t, RegistrationKeys("t1", "Alpha", ""), 1)
	assert.Len(t, RegistrationKeys("t1", "Alpha", "u1"), 2)
	assert.Equal(t, []string{"verification|42"}, VerificationKeys("42"))
}
