package test

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/RunOnFlux/ssp-relay-sub000/internal/api"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/api/router"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/config"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/mongodb"
)

// WithTestServer runs fn against a fully initialized server backed by a
// throwaway database. Skips when no local mongodb is reachable.
func WithTestServer(t *testing.T, fn func(s *api.Server)) {
	t.Helper()
	WithTestServerConfigurable(t, config.DefaultServiceConfigFromEnv(), fn)
}

// WithTestServerConfigurable is WithTestServer with a caller-supplied config.
// The configured database name is replaced with a random one so parallel
// packages never share state; the database is dropped on cleanup.
func WithTestServerConfigurable(t *testing.T, cfg config.Server, fn func(s *api.Server)) {
	t.Helper()

	cfg.Mongo.Database = fmt.Sprintf("ssprelay_test_%d", rand.Int63())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.ConnectTimeout)
	defer cancel()

	db, err := mongodb.Connect(ctx, cfg.Mongo)
	if err != nil {
		t.Skipf("skipping, mongodb unavailable: %v", err)
	}

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		t.Fatalf("failed to ensure indexes: %v", err)
	}

	s, err := api.InitNewServerWithDB(cfg, db)
	if err != nil {
		t.Fatalf("failed to initialize server: %v", err)
	}

	router.Init(s)

	t.Cleanup(func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Mongo.ConnectTimeout)
		defer shutdownCancel()

		if err := db.Drop(shutdownCtx); err != nil {
			t.Logf("failed to drop test database: %v", err)
		}

		if err := s.Shutdown(shutdownCtx); err != nil {
			t.Logf("failed to shut down test server: %v", err)
		}
	})

	fn(s)
}
