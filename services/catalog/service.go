package catalog

import (
	"context"
	"sync"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	timehelper "github.com/vmnc/esports-api/pkg/timeHelper"
	"github.com/vmnc/esports-api/repos/store"
)

// MatchStatusLive marks a match currently being played.
const MatchStatusLive = "LIVE"

type CatalogService struct {
	store store.Store
	clock clockwork.Clock
}

func NewCatalogService(s store.Store, clock clockwork.Clock) *CatalogService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &CatalogService{store: s, clock: clock}
}

func (s *CatalogService) Database() string {
	return s.store.Name()
}

func (s *CatalogService) List(ctx context.Context, collection string) ([]store.Record, error) {
	return s.store.FetchAll(ctx, collection)
}

// Snapshot reads every collection concurrently. Any failed read fails the
// whole snapshot.
func (s *CatalogService) Snapshot(ctx context.Context) (map[string][]store.Record, error) {
	names := store.Collections()
	out := make(map[string][]store.Record, len(names))
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	for _, name := range names {
		g.Go(func() error {
			records, err := s.store.FetchAll(gCtx, name)
			if err != nil {
				return err
			}
			mu.Lock()
			out[name] = records
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// HealthCounts is Snapshot with count queries only.
func (s *CatalogService) HealthCounts(ctx context.Context) (map[string]int64, error) {
	names := store.Collections()
	out := make(map[string]int64, len(names))
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	for _, name := range names {
		g.Go(func() error {
			n, err := s.store.Count(gCtx, name)
			if err != nil {
				return err
			}
			mu.Lock()
			out[name] = n
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// MatchBoard returns both match collections in full.
func (s *CatalogService) MatchBoard(ctx context.Context) (live, upcoming []store.Record, err error) {
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		live, err = s.store.FetchAll(gCtx, store.LiveMatches)
		return err
	})
	g.Go(func() error {
		var err error
		upcoming, err = s.store.FetchAll(gCtx, store.UpcomingMatches)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return live, upcoming, nil
}

// CurrentMatches returns live matches with status LIVE.
func (s *CatalogService) CurrentMatches(ctx context.Context) ([]store.Record, error) {
	return s.store.Find(ctx, store.LiveMatches, store.Filter{store.Eq("status", MatchStatusLive)}, nil)
}

// UpcomingMatches returns matches dated now or later, soonest first. Dates
// are stored normalized, so string comparison is chronological.
func (s *CatalogService) UpcomingMatches(ctx context.Context) ([]store.Record, error) {
	now := timehelper.FormatISO(s.clock.Now())
	return s.store.Find(ctx, store.UpcomingMatches, store.Filter{store.Gte("date", now)}, store.Asc("date"))
}
