package models

import (
	"strings"

	"github.com/vmnc/esports-api/repos/store"
)

// Review states shared by registrations and verification requests.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// ValidStatus reports whether s is one of the review states.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Registration is a team's entry into a tournament.
type Registration struct {
	ID              string   `json:"_id,omitempty"`
	TournamentID    string   `json:"tournamentId"`
	TournamentTitle string   `json:"tournamentTitle"`
	UserID          string   `json:"userId"`
	UserEmail       string   `json:"userEmail"`
	DiscordUsername string   `json:"discordUsername"`
	TeamName        string   `json:"teamName"`
	TeamMembers     []string `json:"teamMembers"`
	CaptainDiscord  string   `json:"captainDiscord"`
	ContactEmail    string   `json:"contactEmail"`
	Region          string   `json:"region"`
	Experience      string   `json:"experience"`
	Status          string   `json:"status"`
	RegisteredAt    string   `json:"registeredAt"`
	UpdatedAt       string   `json:"updatedAt"`
}

// Record converts r into its stored form. The identifier is left for the
// store to assign when empty.
func (r Registration) Record() store.Record {
	members := make([]any, len(r.TeamMembers))
	for i, m := range r.TeamMembers {
		members[i] = m
	}
	rec := store.Record{
		"tournamentId":    r.TournamentID,
		"tournamentTitle": r.TournamentTitle,
		"userId":          r.UserID,
		"userEmail":       r.UserEmail,
		"discordUsername": r.DiscordUsername,
		"teamName":        r.TeamName,
		"teamMembers":     members,
		"captainDiscord":  r.CaptainDiscord,
		"contactEmail":    r.ContactEmail,
		"region":          r.Region,
		"experience":      r.Experience,
		"status":          r.Status,
		"registeredAt":    r.RegisteredAt,
		"updatedAt":       r.UpdatedAt,
	}
	if r.ID != "" {
		rec[store.IDField] = r.ID
	}
	return rec
}

// CleanMembers drops blank entries and trims the rest, keeping order.
func CleanMembers(members []string) []string {
	out := make([]string, 0, len(members))
	for _, m := range members {
		if m = strings.TrimSpace(m); m != "" {
			out = append(out, m)
		}
	}
	return out
}
