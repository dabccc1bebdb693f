// Package handlers attaches the relay's HTTP surface to the router groups.
package handlers

import (
	"github.com/RunOnFlux/ssp-relay-sub000/internal/api"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/api/handlers/action"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/api/handlers/sign"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/api/handlers/sync"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/api/handlers/token"
	"github.com/labstack/echo/v4"
)

// AttachAllRoutes attaches every handler route and returns the list.
func AttachAllRoutes(s *api.Server) []*echo.Route {
	return []*echo.Route{
		sync.GetSyncRoute(s),
		sync.PostSyncRoute(s),
		action.GetActionRoute(s),
		action.PostActionRoute(s),
		token.PostTokenRoute(s),
		sign.PostSignRoute(s),
	}
}
