package main

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/vmnc/esports-api/pkg/apperr"
	"github.com/vmnc/esports-api/pkg/auth"
	"github.com/vmnc/esports-api/repos/store"
	"github.com/vmnc/esports-api/services/admin"
	"github.com/vmnc/esports-api/services/catalog"
	"github.com/vmnc/esports-api/services/eligibility"
	"github.com/vmnc/esports-api/services/registrations"
	"github.com/vmnc/esports-api/services/verification"
)

const banner = `<h1>VMNC Esports API</h1>
<p>Server is running fine.</p>
<p>Use <a href="/ping">/ping</a> to test uptime monitoring.</p>
`

type app struct {
	store      store.Store
	gate       *auth.Gate
	dispatcher registrations.Notifier
	clock      clockwork.Clock
	log        zerolog.Logger
	cors       cors.Config
}

func newRouter(a app) *gin.Engine {
	catalogService := catalog.NewCatalogService(a.store, a.clock)
	validator := eligibility.NewValidator(a.store)
	registrationService := registrations.NewRegistrationService(a.store, validator, a.dispatcher, a.clock, a.log)
	verificationService := verification.NewVerificationService(a.store, validator, a.clock, a.log)
	adminService := admin.NewAdminService(a.store, a.gate, a.clock, a.log)

	router := gin.New()
	router.Use(gin.Logger(), apperr.Recovery(a.log), cors.New(a.cors))
	router.NoRoute(apperr.NoRoute)

	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	router.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(banner))
	})

	apiRouter := router.Group("/api")

	adminRouter := router.Group("/api")
	adminRouter.Use(auth.AuthMiddleware(a.gate)) // Apply the middleware here

	catalogOpts := catalog.HTTPOptions{
		Service: catalogService,
		Router:  apiRouter,
		Logger:  a.log,
	}
	catalog.NewHTTPHandler(catalogOpts)

	registrations.NewHTTPHandler(registrations.HTTPOptions{
		Service:     registrationService,
		Router:      apiRouter,
		AdminRouter: adminRouter,
		Logger:      a.log,
	})

	verification.NewHTTPHandler(verification.HTTPOptions{
		Service:     verificationService,
		Router:      apiRouter,
		AdminRouter: adminRouter,
		Logger:      a.log,
	})

	admin.NewHTTPHandler(admin.HTTPOptions{
		Service:     adminService,
		Router:      apiRouter,
		AdminRouter: adminRouter,
		Snapshot:    catalog.SnapshotHandler(catalogOpts),
		Logger:      a.log,
	})

	return router
}
