package router

import (
	"net/http"

	"github.com/RunOnFlux/ssp-relay-sub000/internal/api"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/api/handlers"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/api/httperrors"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/api/middleware"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/auth"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/relay"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/types"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Init bootstraps the echo instance and attaches every route. The server is
// ready to Start afterwards.
func Init(s *api.Server) {
	s.Echo = echo.New()
	s.Echo.Debug = s.Config.Echo.Debug
	s.Echo.HideBanner = true
	s.Echo.HTTPErrorHandler = errorHandlerWithConfig(s.Config.Echo.HideInternalServerErrorDetails)

	if s.Config.Echo.EnableRecoverMiddleware {
		s.Echo.Use(echoMiddleware.Recover())
	} else {
		log.Warn().Msg("Disabling recover middleware due to environment config")
	}

	if s.Config.Echo.EnableRequestIDMiddleware {
		s.Echo.Use(echoMiddleware.RequestID())
	} else {
		log.Warn().Msg("Disabling request ID middleware due to environment config")
	}

	if s.Config.Echo.EnableLoggerMiddleware {
		s.Echo.Use(middleware.Logger())
	} else {
		log.Warn().Msg("Disabling logger middleware due to environment config")
	}

	policy := auth.ParsePolicy(s.Config.Auth.SocketJoinPolicy)

	// The signed-request middleware guards the mutating routes of each
	// group; it lets body-less reads through untouched.
	s.Router = &api.Router{
		Root:       s.Echo.Group(""),
		Management: s.Echo.Group("/-"),
		APIV1Sync: s.Echo.Group("/v1/sync", middleware.SignatureAuth(middleware.SignatureAuthConfig{
			Authenticator:  s.Authenticator,
			Metrics:        s.Metrics,
			IdentityField:  "walletIdentity",
			ExpectedAction: auth.ActionSync,
			Policy:         policy,
		})),
		APIV1Action: s.Echo.Group("/v1/action", middleware.SignatureAuth(middleware.SignatureAuthConfig{
			Authenticator:  s.Authenticator,
			Metrics:        s.Metrics,
			IdentityField:  "wkIdentity",
			ExpectedAction: auth.ActionAction,
			Policy:         policy,
		})),
		APIV1Token: s.Echo.Group("/v1/token", middleware.SignatureAuth(middleware.SignatureAuthConfig{
			Authenticator:  s.Authenticator,
			Metrics:        s.Metrics,
			IdentityField:  "wkIdentity",
			ExpectedAction: auth.ActionToken,
			Policy:         policy,
		})),
		APIV1Sign: s.Echo.Group("/v1/sign"),
	}

	attachManagementRoutes(s)
	attachSocketRoutes(s)

	s.Router.Routes = handlers.AttachAllRoutes(s)
}

// The signed-request middleware only guards mutating requests; reads are
// keyed by path parameter and return only what the identity published.
func attachManagementRoutes(s *api.Server) {
	s.Router.Management.GET("/healthy", func(c echo.Context) error {
		return c.String(http.StatusOK, "ready.")
	})

	s.Router.Management.GET("/ready", func(c echo.Context) error {
		if !s.Ready() {
			return c.String(http.StatusServiceUnavailable, "not ready.")
		}

		return c.String(http.StatusOK, "ready.")
	})

	s.Router.Management.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.Metrics.Registry, promhttp.HandlerOpts{})))
}

func attachSocketRoutes(s *api.Server) {
	s.Router.Root.GET("/v1/socket/key", s.Relay.SocketHandler(relay.ChannelKey))
	s.Router.Root.GET("/v1/socket/wallet", s.Relay.SocketHandler(relay.ChannelWallet))
}

// errorHandlerWithConfig renders our HTTPError types and translates echo's
// own errors into the same envelope.
func errorHandlerWithConfig(hideInternalServerErrorDetails bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var code int
		var payload interface{}

		switch e := err.(type) {
		case *httperrors.HTTPError:
			code = int(*e.Code)
			if e.Internal != nil && !hideInternalServerErrorDetails {
				e.Title = swagStringConcat(*e.Title, e.Internal.Error())
			}
			payload = e.PublicHTTPError
		case *httperrors.HTTPValidationError:
			code = int(*e.Code)
			payload = e.PublicHTTPValidationError
		case *echo.HTTPError:
			converted := httperrors.NewFromEcho(e)
			code = int(*converted.Code)
			payload = converted.PublicHTTPError
		default:
			code = http.StatusInternalServerError
			internal := httperrors.NewHTTPError(http.StatusInternalServerError, types.PublicHTTPErrorTypeGeneric, http.StatusText(http.StatusInternalServerError))
			if !hideInternalServerErrorDetails {
				internal.Title = swagStringConcat(*internal.Title, err.Error())
			}
			payload = internal.PublicHTTPError
		}

		if c.Request().Method == http.MethodHead {
			if err := c.NoContent(code); err != nil {
				log.Error().Err(err).Msg("Failed to write head error response")
			}
			return
		}

		if err := c.JSON(code, payload); err != nil {
			log.Error().Err(err).Msg("Failed to write error response")
		}
	}
}

func swagStringConcat(title string, detail string) *string {
	combined := title + ": " + detail
	return &combined
}
