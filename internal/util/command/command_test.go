package command_test

import (
	"context"
	"errors"
	"testing"

	"github.com/RunOnFlux/ssp-relay-sub000/internal/api"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/test"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/util/command"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithServer(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		ctx := context.Background()

		var testError = errors.New("test error")

		resultErr := command.WithServer(ctx, s.Config, func(ctx context.Context, inner *api.Server) error {
			require.NotNil(t, inner.Store)
			assert.Equal(t, s.Config.Mongo.Database, inner.DB.Name())

			return testError
		})

		assert.Equal(t, testError, resultErr)
	})
}
