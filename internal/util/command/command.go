// Package command provides shared scaffolding for cobra subcommands that
// need a fully initialized server.
package command

import (
	"context"

	"github.com/RunOnFlux/ssp-relay-sub000/internal/api"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// NewSubcommandGroup returns a group command that requires one of its
// subcommands to be invoked.
func NewSubcommandGroup(use string, subcommands ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use: use,
		Run: func(cmd *cobra.Command, args []string) {
			if err := cmd.Help(); err != nil {
				log.Fatal().Err(err).Msg("Failed to print help")
			}
		},
	}

	cmd.AddCommand(subcommands...)

	return cmd
}

// WithServer initializes a server from the given config, runs fn against it
// and shuts it down afterwards. Meant for one-shot maintenance commands, not
// for the long-running server command.
func WithServer(ctx context.Context, cfg config.Server, fn func(ctx context.Context, s *api.Server) error) error {
	s, err := api.InitNewServer(cfg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize server")
		return err
	}

	defer func() {
		if err := s.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("Failed to shut down server")
		}
	}()

	return fn(ctx, s)
}
