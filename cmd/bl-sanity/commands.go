package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/text/cases"

	"github.com/bl-modding/bl-sanity/internal/console"
	"github.com/bl-modding/bl-sanity/internal/sanity"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Shows the sanity check state of each installed game",
	Args:  cobra.NoArgs,
	RunE:  StatusCommand,
}

var enableCmd = &cobra.Command{
	Use:   "enable [bl2|tps]...",
	Short: "Restores the sanity checks (all installed games if none are named)",
	RunE:  EnableCommand,
}

var disableCmd = &cobra.Command{
	Use:   "disable [bl2|tps]...",
	Short: "Removes the sanity checks (all installed games if none are named)",
	RunE:  DisableCommand,
}

var errTargetsFailed = errors.New("one or more games could not be updated")

func StatusCommand(cmd *cobra.Command, args []string) error {
	targets, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	return printStatus(cmd.OutOrStdout(), targets)
}

func EnableCommand(cmd *cobra.Command, args []string) error {
	return runAction(cmd, args, (*sanity.Binary).Enable)
}

func DisableCommand(cmd *cobra.Command, args []string) error {
	return runAction(cmd, args, (*sanity.Binary).Disable)
}

func printStatus(out io.Writer, targets []console.Target) error {
	failed := false
	for _, target := range targets {
		if target.Binary == nil {
			fmt.Fprintf(out, "%s: not installed\n", target.Game.Name)
			continue
		}
		status, err := target.Binary.Status()
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", target.Game.Name, err)
			failed = true
			continue
		}
		fmt.Fprintf(out, "%s (%s)\n", target.Game.Name, target.Binary.Path)
		fmt.Fprintf(out, "  %s Sanity Check State: %s\n", target.Game.Item.Name, status.Item)
		fmt.Fprintf(out, "  %s Sanity Check State: %s\n", target.Game.Weapon.Name, status.Weapon)
	}
	if failed {
		return errTargetsFailed
	}
	return nil
}

func runAction(cmd *cobra.Command, args []string, action func(*sanity.Binary) (sanity.Status, error)) error {
	targets, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	selected, err := selectTargets(targets, args)
	if err != nil {
		return err
	}
	return applyAction(cmd.OutOrStdout(), selected, action, logger)
}

// applyAction runs action against every target, carrying on past failures.
func applyAction(out io.Writer, targets []console.Target, action func(*sanity.Binary) (sanity.Status, error), logger *zap.SugaredLogger) error {
	failed := false
	for _, target := range targets {
		status, err := action(target.Binary)
		if err != nil {
			logger.Errorf("error processing %s: %v", target.Game.Name, err)
			fmt.Fprintf(out, "%s: %v\n", target.Game.Name, err)
			failed = true
			continue
		}
		fmt.Fprintf(out, "%s: item %s, weapon %s\n", target.Game.Name, status.Item, status.Weapon)
	}
	if failed {
		return errTargetsFailed
	}
	return nil
}

// selectTargets returns the installed targets named by keys, or every
// installed target when keys is empty. Naming a game that isn't installed or
// doesn't exist is an error.
func selectTargets(targets []console.Target, keys []string) ([]console.Target, error) {
	var selected []console.Target
	if len(keys) == 0 {
		for _, target := range targets {
			if target.Binary != nil {
				selected = append(selected, target)
			}
		}
		return selected, nil
	}

	fold := cases.Fold()
	for _, key := range keys {
		key = fold.String(strings.TrimSpace(key))
		found := false
		for _, target := range targets {
			if target.Game.Key != key {
				continue
			}
			if target.Binary == nil {
				return nil, fmt.Errorf("%s is not installed", target.Game.Name)
			}
			selected = append(selected, target)
			found = true
			break
		}
		if !found {
			return nil, fmt.Errorf("unknown game %q", key)
		}
	}
	return selected, nil
}
