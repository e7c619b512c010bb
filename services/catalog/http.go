package catalog

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vmnc/esports-api/pkg/apperr"
	"github.com/vmnc/esports-api/repos/store"
)

// Router is the interface for a router.
type Router interface {
	GET(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	Use(middleware ...gin.HandlerFunc) gin.IRoutes
	Group(relativePath string, handlers ...gin.HandlerFunc) *gin.RouterGroup
}

// Catalog is the read side of the site.
type Catalog interface {
	Database() string
	List(ctx context.Context, collection string) ([]store.Record, error)
	Snapshot(ctx context.Context) (map[string][]store.Record, error)
	HealthCounts(ctx context.Context) (map[string]int64, error)
	MatchBoard(ctx context.Context) (live, upcoming []store.Record, err error)
	CurrentMatches(ctx context.Context) ([]store.Record, error)
	UpcomingMatches(ctx context.Context) ([]store.Record, error)
}

// HTTPOptions contains all the options needed for the HTTP handler.
type HTTPOptions struct {

	// The service we provides the HTTP transport for.
	Service Catalog

	// The router instance to configure the HTTP routes.
	Router Router

	Logger zerolog.Logger
}

// NewHTTPHandler creates a new HTTP handler.
func NewHTTPHandler(opts HTTPOptions) {
	r := opts.Router
	h := &httpHandler{opts}
	r.GET("/health", h.healthHandler)
	r.GET("/data", h.dataHandler)
	r.GET("/players", h.listHandler(store.Players))
	r.GET("/teams", h.listHandler(store.Teams))
	r.GET("/tournaments", h.listHandler(store.Tournaments))
	r.GET("/giveaways", h.listHandler(store.Giveaways))
	r.GET("/live-matches", h.matchBoardHandler)
	r.GET("/live-matches/current", h.currentMatchesHandler)
	r.GET("/upcoming-matches", h.upcomingMatchesHandler)
}

// SnapshotHandler serves the full snapshot; the admin routes reuse it.
func SnapshotHandler(opts HTTPOptions) gin.HandlerFunc {
	h := &httpHandler{opts}
	return h.dataHandler
}

type httpHandler struct {
	HTTPOptions
}

func (h *httpHandler) healthHandler(c *gin.Context) {
	counts, err := h.Service.HealthCounts(c)
	if err != nil {
		h.Logger.Error().Err(err).Msg("health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "error",
			"database": h.Service.Database(),
			"error":    "Database unavailable",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"database": h.Service.Database(),
		"data":     counts,
	})
}

func (h *httpHandler) dataHandler(c *gin.Context) {
	snapshot, err := h.Service.Snapshot(c)
	if err != nil {
		apperr.Respond(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (h *httpHandler) listHandler(collection string) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, err := h.Service.List(c, collection)
		if err != nil {
			apperr.Respond(c, h.Logger, err)
			return
		}
		c.JSON(http.StatusOK, records)
	}
}

func (h *httpHandler) matchBoardHandler(c *gin.Context) {
	live, upcoming, err := h.Service.MatchBoard(c)
	if err != nil {
		apperr.Respond(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"liveMatches":     live,
		"upcomingMatches": upcoming,
	})
}

func (h *httpHandler) currentMatchesHandler(c *gin.Context) {
	matches, err := h.Service.CurrentMatches(c)
	if err != nil {
		apperr.Respond(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, matches)
}

func (h *httpHandler) upcomingMatchesHandler(c *gin.Context) {
	matches, err := h.Service.UpcomingMatches(c)
	if err != nil {
		apperr.Respond(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, matches)
}
