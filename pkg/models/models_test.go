package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/xorcare/pointer"

	"github.com/vmnc/esports-api/repos/store"
)

func TestCleanMembers(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, CleanMembers([]string{"a", "", "b"}))
	assert.Equal(t, []string{"a", "b", "c"}, CleanMembers([]string{" a", "  ", "b ", "\t", "c"}))
	assert.Equal(t, []string{}, CleanMembers(nil))
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusPending, StatusApproved, StatusRejected} {
		assert.True(t, ValidStatus(s))
	}
	assert.False(t, ValidStatus("Approved"))
	assert.False(t, ValidStatus(""))
}

func TestRegistrationRecord(t *testing.T) {
	r := Registration{TournamentID: "t1", TeamName: "Alpha", TeamMembers: []string{"a", "b"}, Status: StatusPending}
	rec := r.Record()
	assert.Equal(t, "t1", rec["tournamentId"])
	assert.Equal(t, []any{"a", "b"}, rec["teamMembers"])
	_, hasID := rec[store.IDField]
	assert.False(t, hasID)

	r.ID = "r1"
	assert.Equal(t, "r1", r.Record().ID())
}

func TestVerificationRecord(t *testing.T) {
	v := VerificationRequest{DiscordID: "42", Status: StatusPending}
	rec := v.Record()
	assert.Nil(t, rec["reviewed_by"])
	assert.Equal(t, false, rec["reviewed"])

	v.ReviewedBy = pointer.String("mod")
	assert.Equal(t, "mod", v.Record()["reviewed_by"])
}

func TestReviewFields(t *testing.T) {
	at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	approved := ReviewFields(StatusApproved, pointer.String("admin"), at)
	assert.Equal(t, true, approved["reviewed"])
	assert.Equal(t, "admin", approved["reviewed_by"])
	assert.Equal(t, "2025-03-01T09:00:00.000Z", approved["reviewed_at"])

	reopened := ReviewFields(StatusPending, pointer.String("admin"), at)
	assert.Equal(t, false, reopened["reviewed"])
	assert.Nil(t, reopened["reviewed_by"])
	assert.Nil(t, reopened["reviewed_at"])
}
