package token

import (
	"net/http"

	"github.com/RunOnFlux/ssp-relay-sub000/internal/api"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/api/httperrors"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/relay/store"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/types"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/util"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

func PostTokenRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Token.POST("", postTokenHandler(s))
}

// postTokenHandler registers a push delivery token for a wkIdentity.
// Re-registering an identical token is a no-op.
func postTokenHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body types.PostTokenPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		rec, err := s.Store.UpsertToken(ctx, &store.TokenRecord{
			WkIdentity:  body.WkIdentity,
			KeyToken:    body.KeyToken,
			WalletToken: body.WalletToken,
		})
		if err != nil {
			if errors.Is(err, store.ErrTokenCapExceeded) {
				return httperrors.ErrBadRequestTokenCap
			}

			log.Error().Err(err).Msg("Failed to store token record")
			return httperrors.ErrInternalStore
		}

		log.Debug().Str("wkIdentity", rec.WkIdentity).Msg("Registered push token")

		s.Hooks.OnTokenRegistered(ctx, rec)

		return c.JSON(http.StatusOK, rec)
	}
}
