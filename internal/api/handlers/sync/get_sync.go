package sync

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

func GetSyncRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Sync.GET("/:identity", getSyncHandler(s))
}

// getSyncHandler returns the live pairing record published under a wallet
// identity. The record exists for a short TTL window after the key side
// posts it.
func getSyncHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		identity := c.Param("identity")
		if !types.ValidIdentity(identity) {
			return httperrors.ErrBadRequestInvalidIdentity
		}

		rec, err := s.Store.GetSyncByWalletIdentity(ctx, identity)
		if err != nil {
			if errors.Is(err, store.ErrNoRecord) {
				return httperrors.ErrNotFoundRecord
			}

			log.Error().Err(err).Msg("Failed to load sync record")
			return httperrors.ErrInternalStore
		}

		return c.JSON(http.StatusOK, rec)
	}
}
