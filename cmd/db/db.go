package db

import (
	"github.com/RunOnFlux/ssp-relay-sub000/internal/util/command"
	"github.com/spf13/cobra"
)

func New() *cobra.Command {
	return command.NewSubcommandGroup("db",
		newIndexes(),
		newPing(),
	)
}
