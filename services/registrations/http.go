package registrations

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vmnc/esports-api/pkg/apperr"
	"github.com/vmnc/esports-api/pkg/models"
	"github.com/vmnc/esports-api/repos/store"
)

// Router is the interface for a router.
type Router interface {
	GET(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	POST(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	PUT(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	DELETE(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	Use(middleware ...gin.HandlerFunc) gin.IRoutes
	Group(relativePath string, handlers ...gin.HandlerFunc) *gin.RouterGroup
}

// Registrations is the tournament registration service.
type Registrations interface {
	Register(ctx context.Context, req RegistrationRequest) (models.Registration, error)
	ForTournament(ctx context.Context, tournamentID string) ([]store.Record, error)
	ForUser(ctx context.Context, userID string) ([]store.Record, error)
	All(ctx context.Context) ([]store.Record, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
}

// HTTPOptions contains all the options needed for the HTTP handler.
type HTTPOptions struct {

	// The service we provides the HTTP transport for.
	Service Registrations

	// Public routes.
	Router Router

	// Routes that require an admin token.
	AdminRouter Router

	Logger zerolog.Logger
}

// NewHTTPHandler creates a new HTTP handler.
func NewHTTPHandler(opts HTTPOptions) {
	h := &httpHandler{opts}

	r := opts.Router
	r.POST("/tournament-registrations", h.registerHandler)
	r.GET("/tournament-registrations/:tournamentId", h.tournamentHandler)
	r.GET("/user-registrations/:userId", h.userHandler)

	a := opts.AdminRouter
	a.GET("/tournament-registrations", h.listHandler)
	a.PUT("/tournament-registrations/:id", h.statusHandler)
	a.DELETE("/tournament-registrations/:id", h.deleteHandler)
}

type httpHandler struct {
	HTTPOptions
}

func (h *httpHandler) registerHandler(c *gin.Context) {
	var request RegistrationRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		c.Abort()
		return
	}

	reg, err := h.Service.Register(c, request)
	if err != nil {
		apperr.Respond(c, h.Logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"message":        "Registration submitted successfully",
		"registrationId": reg.ID,
	})
}

func (h *httpHandler) tournamentHandler(c *gin.Context) {
	records, err := h.Service.ForTournament(c, c.Param("tournamentId"))
	if err != nil {
		apperr.Respond(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *httpHandler) userHandler(c *gin.Context) {
	records, err := h.Service.ForUser(c, c.Param("userId"))
	if err != nil {
		apperr.Respond(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *httpHandler) listHandler(c *gin.Context) {
	records, err := h.Service.All(c)
	if err != nil {
		apperr.Respond(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *httpHandler) statusHandler(c *gin.Context) {
	var request StatusRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		c.Abort()
		return
	}

	if err := h.Service.UpdateStatus(c, c.Param("id"), request.Status); err != nil {
		apperr.Respond(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Registration updated successfully"})
}

func (h *httpHandler) deleteHandler(c *gin.Context) {
	if err := h.Service.Delete(c, c.Param("id")); err != nil {
		apperr.Respond(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Registration deleted successfully"})
}
