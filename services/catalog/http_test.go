package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmnc/esports-api/repos/store"
)

var testNow = time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC)

func newTestRouter(t *testing.T, s store.Store) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHTTPHandler(HTTPOptions{
		Service: NewCatalogService(s, clockwork.NewFakeClockAt(testNow)),
		Router:  router.Group("/api"),
		Logger:  zerolog.Nop(),
	})
	return router
}

func get(t *testing.T, router http.Handler, path string, out any) int {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	if out != nil {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
	}
	return w.Code
}

func seed(t *testing.T, s store.Store, collection string, records ...store.Record) {
	t.Helper()
	_, err := s.InsertMany(context.Background(), collection, records)
	require.NoError(t, err)
}

func TestHealth(t *testing.T) {
	s := store.NewMemory()
	seed(t, s, store.Players, store.Record{"name": "a"}, store.Record{"name": "b"})
	seed(t, s, store.Teams, store.Record{"name": "t"})

	var body struct {
		Status   string           `json:"status"`
		Database string           `json:"database"`
		Data     map[string]int64 `json:"data"`
	}
	code := get(t, newTestRouter(t, s), "/api/health", &body)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "memory", body.Database)
	assert.Len(t, body.Data, len(store.Collections()))
	assert.EqualValues(t, 2, body.Data[store.Players])
	assert.EqualValues(t, 1, body.Data[store.Teams])
	assert.EqualValues(t, 0, body.Data[store.VerificationRequests])
}

func TestHealth_StorageDown(t *testing.T) {
	s := store.NewMemory()
	require.NoError(t, s.Close(context.Background()))

	var body map[string]any
	code := get(t, newTestRouter(t, s), "/api/health", &body)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "error", body["status"])
}

func TestData_Snapshot(t *testing.T) {
	s := store.NewMemory()
	seed(t, s, store.Giveaways, store.Record{"details": "skin"})

	var body map[string][]map[string]any
	code := get(t, newTestRouter(t, s), "/api/data", &body)

	assert.Equal(t, http.StatusOK, code)
	for _, name := range store.Collections() {
		_, ok := body[name]
		assert.True(t, ok, "snapshot has %s", name)
	}
	require.Len(t, body[store.Giveaways], 1)
	assert.Equal(t, "skin", body[store.Giveaways][0]["details"])
	assert.Empty(t, body[store.Players])
}

func TestData_StorageDown(t *testing.T) {
	s := store.NewMemory()
	require.NoError(t, s.Close(context.Background()))

	var body map[string]string
	code := get(t, newTestRouter(t, s), "/api/data", &body)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "Database unavailable", body["error"])
}

func TestListCollections(t *testing.T) {
	s := store.NewMemory()
	seed(t, s, store.Players, store.Record{"name": "Neo"})
	seed(t, s, store.Tournaments, store.Record{"title": "Cup"}, store.Record{"title": "Open"})
	router := newTestRouter(t, s)

	var players []map[string]any
	assert.Equal(t, http.StatusOK, get(t, router, "/api/players", &players))
	assert.Len(t, players, 1)

	var tournaments []map[string]any
	assert.Equal(t, http.StatusOK, get(t, router, "/api/tournaments", &tournaments))
	assert.Len(t, tournaments, 2)

	var teams []map[string]any
	assert.Equal(t, http.StatusOK, get(t, router, "/api/teams", &teams))
	assert.NotNil(t, teams)
	assert.Empty(t, teams)
}

func TestMatches(t *testing.T) {
	s := store.NewMemory()
	seed(t, s, store.LiveMatches,
		store.Record{"title": "now", "status": "LIVE"},
		store.Record{"title": "done", "status": "ENDED"},
	)
	seed(t, s, store.UpcomingMatches,
		store.Record{"title": "past", "date": "2025-06-18T11:59:59.999Z"},
		store.Record{"title": "later", "date": "2025-07-01T10:00:00.000Z"},
		store.Record{"title": "exactly now", "date": "2025-06-18T12:00:00.000Z"},
		store.Record{"title": "soon", "date": "2025-06-19T09:00:00.000Z"},
	)
	router := newTestRouter(t, s)

	var board struct {
		LiveMatches     []map[string]any `json:"liveMatches"`
		UpcomingMatches []map[string]any `json:"upcomingMatches"`
	}
	assert.Equal(t, http.StatusOK, get(t, router, "/api/live-matches", &board))
	assert.Len(t, board.LiveMatches, 2)
	assert.Len(t, board.UpcomingMatches, 4)

	var current []map[string]any
	assert.Equal(t, http.StatusOK, get(t, router, "/api/live-matches/current", &current))
	require.Len(t, current, 1)
	assert.Equal(t, "now", current[0]["title"])

	var upcoming []map[string]any
	assert.Equal(t, http.StatusOK, get(t, router, "/api/upcoming-matches", &upcoming))
	titles := make([]any, len(upcoming))
	for i, m := range upcoming {
		titles[i] = m["title"]
	}
	assert.Equal(t, []any{"exactly now", "soon", "later"}, titles)
}
