package store

import (
	"fmt"

	timehelper "github.com/vmnc/esports-api/pkg/timeHelper"
)

// Collection names known to the service.
const (
	Players                 = "players"
	Teams                   = "teams"
	Tournaments             = "tournaments"
	Giveaways               = "giveaways"
	LiveMatches             = "liveMatches"
	UpcomingMatches         = "upcomingMatches"
	TournamentRegistrations = "tournamentRegistrations"
	VerificationRequests    = "verificationRequests"
)

var collections = []string{
	Players,
	Teams,
	Tournaments,
	Giveaways,
	LiveMatches,
	UpcomingMatches,
	TournamentRegistrations,
	VerificationRequests,
}

// Collections returns the fixed set of collection names in a stable order.
func Collections() []string {
	out := make([]string, len(collections))
	copy(out, collections)
	return out
}

// ValidCollection reports whether name is one of Collections.
func ValidCollection(name string) bool {
	for _, c := range collections {
		if c == name {
			return true
		}
	}
	return false
}

// Normalize rewrites fields that have a canonical stored form. Today that is
// only the date of an upcoming match, which is stored as an ISO-8601 string so
// it can be range queried and sorted.
func Normalize(collection string, record Record) (Record, error) {
	if collection != UpcomingMatches {
		return record, nil
	}
	raw, ok := record["date"]
	if !ok || raw == nil {
		return record, nil
	}
	date, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("date must be a string, got %T", raw)
	}
	normalized, err := timehelper.NormalizeISO(date)
	if err != nil {
		return nil, err
	}
	out := record.Clone()
	out["date"] = normalized
	return out, nil
}
