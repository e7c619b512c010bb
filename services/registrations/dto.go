package registrations

import (
	"strings"

	"github.com/vmnc/esports-api/pkg/models"
)

// RegistrationRequest is the body of a registration submission.
type RegistrationRequest struct {
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
}

func (r RegistrationRequest) toModel() models.Registration {
	return models.Registration{
		TournamentID:    strings.TrimSpace(r.TournamentID),
		TournamentTitle: strings.TrimSpace(r.TournamentTitle),
		UserID:          strings.TrimSpace(r.UserID),
		UserEmail:       strings.TrimSpace(r.UserEmail),
		DiscordUsername: strings.TrimSpace(r.DiscordUsername),
		TeamName:        strings.TrimSpace(r.TeamName),
		TeamMembers:     models.CleanMembers(r.TeamMembers),
		CaptainDiscord:  strings.TrimSpace(r.CaptainDiscord),
		ContactEmail:    strings.TrimSpace(r.ContactEmail),
		Region:          strings.TrimSpace(r.Region),
		Experience:      strings.TrimSpace(r.Experience),
	}
}

// StatusRequest is the body of an admin status change.
type StatusRequest struct {
	Status string `json:"status"`
}
