package db

import (
	"context"

	"github.com/RunOnFlux/ssp-relay-sub000/internal/config"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/mongodb"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newIndexes() *cobra.Command {
	return &cobra.Command{
		Use:   "indexes",
		Short: "Ensures the record store indexes exist",
		Long:  "Creates the TTL and lookup indexes on the sync, action and token collections. Safe to run repeatedly.",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.DefaultServiceConfigFromEnv()

			ctx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.ConnectTimeout)
			defer cancel()

			db, err := mongodb.Connect(ctx, cfg.Mongo)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to connect to mongodb")
			}
			defer func() {
				if err := db.Client().Disconnect(ctx); err != nil {
					log.Warn().Err(err).Msg("Failed to disconnect mongodb client")
				}
			}()

			if err := mongodb.EnsureIndexes(ctx, db); err != nil {
				log.Fatal().Err(err).Msg("Failed to ensure indexes")
			}

			log.Info().Msg("Indexes ensured")
		},
	}
}
