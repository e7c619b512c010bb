package models

import (
	"time"

	timehelper "github.com/vmnc/esports-api/pkg/timeHelper"
	"github.com/vmnc/esports-api/repos/store"
)

// VerificationRequest asks an admin to confirm a Discord identity.
type VerificationRequest struct {
	ID              string  `json:"_id,omitempty"`
	DiscordUsername string  `json:"discord_username"`
	DiscordID       string  `json:"discord_id"`
	Email           string  `json:"email"`
	Status          string  `json:"status"`
	RequestedAt     string  `json:"requested_at"`
	Reviewed        bool    `json:"reviewed"`
	ReviewedBy      *string `json:"reviewed_by"`
	ReviewedAt      *string `json:"reviewed_at"`
}

// Record converts v into its stored form.
func (v VerificationRequest) Record() store.Record {
	rec := store.Record{
		"discord_username": v.DiscordUsername,
		"discord_id":       v.DiscordID,
		"email":            v.Email,
		"status":           v.Status,
		"requested_at":     v.RequestedAt,
		"reviewed":         v.Reviewed,
		"reviewed_by":      valueOrNil(v.ReviewedBy),
		"reviewed_at":      valueOrNil(v.ReviewedAt),
	}
	if v.ID != "" {
		rec[store.IDField] = v.ID
	}
	return rec
}

// ReviewFields is the partial update applied when an admin moves a request
// to status.
func ReviewFields(status string, reviewer *string, at time.Time) store.Record {
	reviewed := status != StatusPending
	fields := store.Record{
		"status":      status,
		"reviewed":    reviewed,
		"reviewed_by": nil,
		"reviewed_at": nil,
	}
	if reviewed {
		fields["reviewed_by"] = valueOrNil(reviewer)
		fields["reviewed_at"] = timehelper.FormatISO(at)
	}
	return fields
}

func valueOrNil(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
