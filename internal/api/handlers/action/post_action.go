package action

import (
	"net/http"

	"github.com/RunOnFlux/ssp-relay-sub000/internal/api"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/api/httperrors"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/relay/store"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/types"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/util"
	"github.com/labstack/echo/v4"
)

func PostActionRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Action.POST("", postActionHandler(s))
}

// postActionHandler stores the pending action for a wkIdentity (replacing
// any prior one), relays it to connected sockets and fans out push
// notifications. Relay and push are best effort; the request succeeds once
// the record is stored.
func postActionHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body types.PostActionPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		rec, err := s.Store.UpsertAction(ctx, &store.ActionRecord{
			Chain:      body.Chain,
			Path:       body.Path,
			WkIdentity: body.WkIdentity,
			Action:     body.Action,
			Payload:    body.Payload,
			Utxos:      body.Utxos,
		})
		if err != nil {
			log.Error().Err(err).Msg("Failed to store action record")
			return httperrors.ErrInternalStore
		}

		log.Debug().Str("wkIdentity", rec.WkIdentity).Str("action", rec.Action).Msg("Stored action record")

		s.Relay.RelayAction(ctx, rec)
		s.Push.NotifyAction(ctx, rec)
		s.Hooks.OnActionStored(ctx, rec)

		return c.JSON(http.StatusOK, rec)
	}
}
