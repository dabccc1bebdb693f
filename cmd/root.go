package cmd

import (
	"os"

	"github.com/RunOnFlux/ssp-relay-sub000/cmd/db"
	"github.com/RunOnFlux/ssp-relay-sub000/cmd/probe"
	"github.com/RunOnFlux/ssp-relay-sub000/cmd/server"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ssp-relay",
	Short: "SSP relay service",
	Long:  "Zero-custody relay between SSP wallet and SSP key devices.",
	Run: func(cmd *cobra.Command, args []string) {
		if err := cmd.Help(); err != nil {
			log.Fatal().Err(err).Msg("Failed to print help")
		}
	},
}

// Execute runs the root command, exiting non-zero on failure.
func Execute() {
	rootCmd.AddCommand(
		server.New(),
		db.New(),
		probe.New(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
