package sign

import (
	"encoding/json"
	"net/http"

	"github.com/RunOnFlux/ssp-relay-sub000/internal/api"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/api/httperrors"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/auth"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/relay/store"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/types"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/util"
	"github.com/labstack/echo/v4"
)

func PostSignRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Sign.POST("", postSignHandler(s))
}

// postSignHandler accepts an origin-bound signing request from a website
// the wallet is logged into and forwards it to the key device as a pending
// action. The key side verifies the wallet signature itself before signing;
// the relay only checks the challenge window so stale requests die here.
func postSignHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body types.PostSignPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		if err := s.WkSignValidator.ValidateMessage(body.Message); err != nil {
			reason, _ := auth.ReasonOf(err)
			log.Warn().Err(err).Str("reason", string(reason)).Msg("Rejecting wk-sign request")
			return httperrors.ErrUnauthorizedSignature
		}

		payload, err := json.Marshal(body)
		if err != nil {
			log.Error().Err(err).Msg("Failed to serialize wk-sign request")
			return httperrors.ErrInternalStore
		}

		rec, err := s.Store.UpsertAction(ctx, &store.ActionRecord{
			Chain:      "btc",
			WkIdentity: body.WkIdentity,
			Action:     "wksigningrequest",
			Payload:    string(payload),
		})
		if err != nil {
			log.Error().Err(err).Msg("Failed to store wk-sign action")
			return httperrors.ErrInternalStore
		}

		log.Debug().Str("wkIdentity", rec.WkIdentity).Str("requestId", body.RequestID).Msg("Stored wk-sign request")

		s.Relay.RelayAction(ctx, rec)
		s.Push.NotifyAction(ctx, rec)
		s.Hooks.OnActionStored(ctx, rec)

		return c.JSON(http.StatusOK, rec)
	}
}
