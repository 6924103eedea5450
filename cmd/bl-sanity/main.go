// Command bl-sanity enables or disables the item and weapon sanity checks in
// the Linux versions of Borderlands 2 and Borderlands: The Pre-Sequel.
//
// Run with no arguments for the interactive menu, or use the status, enable
// and disable subcommands to script it. No backups are made; a file
// verification through Steam will restore the original executables.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bl-modding/bl-sanity/internal/console"
)

var ConfigFlag string

func main() {
	rootCmd := &cobra.Command{
		Use:           "bl-sanity",
		Short:         "Toggle the Borderlands 2/TPS sanity checks",
		Args:          cobra.NoArgs,
		RunE:          InteractiveCommand,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&ConfigFlag, "config", "c", "", "Path to a directory containing an optional config.yaml")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(enableCmd)
	rootCmd.AddCommand(disableCmd)

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, console.ErrQuit) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
