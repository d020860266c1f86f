// Package api assembles the HTTP surface.
package api

import (
	"rakshak-service/internal/contact"
	"rakshak-service/internal/health"
	"rakshak-service/internal/incident"
	"rakshak-service/internal/metrics"
	"rakshak-service/internal/middleware"
	"rakshak-service/internal/sos"
	"rakshak-service/internal/user"
	"rakshak-service/pkg/constants"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Handlers struct {
	Incident *incident.IncidentHandler
	Contact  *contact.ContactHandler
	SOS      *sos.SOSHandler
	User     *user.UserHandler
	Health   *health.Monitor
}

type Options struct {
	Logger     *zap.SugaredLogger
	Metrics    *metrics.Metrics
	Gatherer   prometheus.Gatherer
	CORSOrigin string

	// Tokens is required when EnforceAuth is set.
	Tokens      middleware.TokenParser
	EnforceAuth bool

	// RateLimit guards report creation and login, never SOS. Nil
	// disables it.
	RateLimit gin.HandlerFunc

	UploadsDir    string
	UploadsPrefix string
}

func NewRouter(h Handlers, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(opts.Logger))
	r.Use(middleware.HTTPMetrics(opts.Metrics))
	r.Use(middleware.CORS(opts.CORSOrigin))

	if opts.UploadsDir != "" && opts.UploadsPrefix != "" {
		r.Static(opts.UploadsPrefix, opts.UploadsDir)
	}
	if h.Health != nil {
		r.GET("/health", h.Health.Handler)
	}
	if opts.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	var limit []gin.HandlerFunc
	if opts.RateLimit != nil {
		limit = append(limit, opts.RateLimit)
	}

	guards := incident.Guards{Report: limit}
	var moderate []gin.HandlerFunc
	if opts.EnforceAuth {
		secured := middleware.Secured(opts.Tokens)
		moderate = []gin.HandlerFunc{secured, middleware.RequireRole(constants.RoleAdmin, constants.RoleModerator)}
		guards.Moderate = moderate
		guards.Admin = []gin.HandlerFunc{secured, middleware.RequireRole(constants.RoleAdmin)}
	}

	apiGroup := r.Group("/api")
	sos.RegisterRoutes(apiGroup, h.SOS, moderate...)
	incident.RegisterRoutes(apiGroup, h.Incident, guards)
	contact.RegisterRoutes(apiGroup, h.Contact)
	user.RegisterRoutes(apiGroup, h.User, limit...)

	return r
}
