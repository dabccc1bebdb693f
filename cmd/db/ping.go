package db

import (
	"context"

	"github.com/RunOnFlux/ssp-relay-sub000/internal/config"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/mongodb"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newPing() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Checks the record store connection",
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

			log.Info().Str("database", db.Name()).Msg("Record store reachable")
		},
	}
}
