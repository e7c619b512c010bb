package admin

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vmnc/esports-api/pkg/apperr"
	"github.com/vmnc/esports-api/pkg/auth"
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

// Admin is the admin service.
type Admin interface {
	Login(password string) (auth.Admin, error)
	Logout(token string)
	Replace(ctx context.Context, collection string, records []store.Record) (int, error)
	Create(ctx context.Context, collection string, record store.Record) (string, error)
	Update(ctx context.Context, collection, id string, fields store.Record) error
	Delete(ctx context.Context, collection, id string) error
}

// HTTPOptions contains all the options needed for the HTTP handler.
type HTTPOptions struct {

	// The service we provides the HTTP transport for.
	Service Admin

	// Public routes, only login lives here.
	Router Router

	// Routes that require an admin token.
	AdminRouter Router

	// Snapshot serves GET /admin/data.
	Snapshot gin.HandlerFunc

	Logger zerolog.Logger
}

// NewHTTPHandler creates a new HTTP handler.
func NewHTTPHandler(opts HTTPOptions) {
	h := &httpHandler{opts}

	opts.Router.POST("/admin/login", h.loginHandler)

	a := opts.AdminRouter
	a.POST("/admin/logout", h.logoutHandler)
	if opts.Snapshot != nil {
		a.GET("/admin/data", opts.Snapshot)
	}
	a.POST("/admin/update", h.replaceHandler)
	a.POST("/admin/:collection", h.createHandler)
	a.PUT("/admin/:collection/:id", h.updateHandler)
	a.DELETE("/admin/:collection/:id", h.deleteHandler)
}

type httpHandler struct {
	HTTPOptions
}

type loginRequest struct {
	Password string `json:"password"`
}

type replaceRequest struct {
	Type string         `json:"type"`
	Data []store.Record `json:"data"`
}

func (h *httpHandler) loginHandler(c *gin.Context) {
	var request loginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		c.Abort()
		return
	}

	admin, err := h.Service.Login(request.Password)
	if err != nil {
		if apperr.Status(err) == http.StatusUnauthorized {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid password"})
			c.Abort()
			return
		}
		apperr.Respond(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"token":     admin.Token,
		"message":   "Login successful",
		"expiresAt": admin.ExpiresAt,
	})
}

func (h *httpHandler) logoutHandler(c *gin.Context) {
	h.Service.Logout(auth.BearerToken(c))
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out"})
}

func (h *httpHandler) replaceHandler(c *gin.Context) {
	var request replaceRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		c.Abort()
		return
	}

	n, err := h.Service.Replace(c, request.Type, request.Data)
	if err != nil {
		apperr.Respond(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": request.Type + " updated successfully",
		"count":   n,
	})
}

func (h *httpHandler) createHandler(c *gin.Context) {
	var record store.Record
	if err := c.ShouldBindJSON(&record); err != nil || record == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		c.Abort()
		return
	}

	id, err := h.Service.Create(c, c.Param("collection"), record)
	if err != nil {
		apperr.Respond(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "id": id})
}

func (h *httpHandler) updateHandler(c *gin.Context) {
	var fields store.Record
	if err := c.ShouldBindJSON(&fields); err != nil || fields == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		c.Abort()
		return
	}

	if err := h.Service.Update(c, c.Param("collection"), c.Param("id"), fields); err != nil {
		apperr.Respond(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *httpHandler) deleteHandler(c *gin.Context) {
	if err := h.Service.Delete(c, c.Param("collection"), c.Param("id")); err != nil {
		apperr.Respond(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
