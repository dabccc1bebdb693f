package api

import (
	"context"

	"github.com/RunOnFlux/ssp-relay-sub000/internal/auth"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/config"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/hooks"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/metrics"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/push"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/relay"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/relay/store"
	"github.com/dropbox/godropbox/time2"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
)

// Router groups the echo route groups the handlers attach to. It is
// populated by router.Init.
type Router struct {
	Routes []*echo.Route

	Root        *echo.Group
	Management  *echo.Group
	APIV1Sync   *echo.Group
	APIV1Action *echo.Group
	APIV1Token  *echo.Group
	APIV1Sign   *echo.Group
}

// Server bundles the relay components. Echo and Router stay nil until
// router.Init wires the HTTP surface.
type Server struct {
	Config config.Server
	DB     *mongo.Database
	Echo   *echo.Echo
	Router *Router

	Clock           time2.Clock
	ReplayGuard     *auth.ReplayGuard
	Authenticator   *auth.Authenticator
	WkSignValidator *auth.WkSignValidator
	Store           *store.Store
	Relay           *relay.Service
	Push            *push.Service
	Metrics         *metrics.Service
	Hooks           hooks.Hooks
}

func newServerWithComponents(
	cfg config.Server,
	db *mongo.Database,
	clock time2.Clock,
	replayGuard *auth.ReplayGuard,
	authenticator *auth.Authenticator,
	wkSignValidator *auth.WkSignValidator,
	recordStore *store.Store,
	relayService *relay.Service,
	pushService *push.Service,
	metricsService *metrics.Service,
	hookTable hooks.Hooks,
) *Server {
	return &Server{
		Config:          cfg,
		DB:              db,
		Clock:           clock,
		ReplayGuard:     replayGuard,
		Authenticator:   authenticator,
		WkSignValidator: wkSignValidator,
		Store:           recordStore,
		Relay:           relayService,
		Push:            pushService,
		Metrics:         metricsService,
		Hooks:           hookTable,
	}
}

// Ready reports whether the server was fully initialized.
func (s *Server) Ready() bool {
	return s.Echo != nil && s.Router != nil && s.DB != nil
}

// Start begins listening on the configured address, blocking until shutdown.
func (s *Server) Start() error {
	return s.Echo.Start(s.Config.Echo.ListenAddress)
}

// Shutdown gracefully stops the HTTP surface, the replay guard sweep and the
// store connection.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Warn().Msg("Shutting down server")

	if s.ReplayGuard != nil {
		s.ReplayGuard.Stop()
	}

	if s.DB != nil {
		if err := s.DB.Client().Disconnect(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to disconnect mongodb client")
		}
	}

	if s.Echo != nil {
		return s.Echo.Shutdown(ctx)
	}

	return nil
}
