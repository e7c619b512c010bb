package verification

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

// Verifications is the verification request service.
type Verifications interface {
	Submit(ctx context.Context, body VerificationRequestBody) (models.VerificationRequest, error)
	ForDiscordID(ctx context.Context, discordID string) ([]store.Record, error)
	All(ctx context.Context) ([]store.Record, error)
	Review(ctx context.Context, id string, review ReviewRequest) error
	Delete(ctx context.Context, id string) error
}

// HTTPOptions contains all the options needed for the HTTP handler.
type HTTPOptions struct {

	// The service we provides the HTTP transport for.
	Service Verifications

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
	r.POST("/verification-requests", h.submitHandler)
	r.GET("/verification-requests/user/:discord_id", h.userHandler)

	a := opts.AdminRouter
	a.GET("/verification-requests", h.listHandler)
	a.PUT("/verification-requests/:id", h.reviewHandler)
	a.DELETE("/verification-requests/:id", h.deleteHandler)
}

type httpHandler struct {
	HTTPOptions
}

func (h *httpHandler) submitHandler(c *gin.Context) {
	var body VerificationRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		c.Abort()
		return
	}

	req, err := h.Service.Submit(c, body)
	if err != nil {
		apperr.Respond(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Verification request submitted successfully",
		"requestId": req.ID,
	})
}

func (h *httpHandler) userHandler(c *gin.Context) {
	records, err := h.Service.ForDiscordID(c, c.Param("discord_id"))
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

func (h *httpHandler) reviewHandler(c *gin.Context) {
	var review ReviewRequest
	if err := c.ShouldBindJSON(&review); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		c.Abort()
		return
	}

	if err := h.Service.Review(c, c.Param("id"), review); err != nil {
		apperr.Respond(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Verification request updated successfully"})
}

func (h *httpHandler) deleteHandler(c *gin.Context) {
	if err := h.Service.Delete(c, c.Param("id")); err != nil {
		apperr.Respond(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Verification request deleted successfully"})
}
