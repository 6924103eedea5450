package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/bl-modding/bl-sanity/internal/console"
)

// InteractiveCommand walks through each game, prompting for what to do.
func InteractiveCommand(cmd *cobra.Command, args []string) error {
	targets, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	return console.NewPrompter(os.Stdin, cmd.OutOrStdout(), logger).Run(targets)
}
