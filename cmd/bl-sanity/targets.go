package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/bl-modding/bl-sanity/internal/console"
	"github.com/bl-modding/bl-sanity/internal/core"
	"github.com/bl-modding/bl-sanity/internal/sanity"
	"github.com/bl-modding/bl-sanity/internal/steam"
)

// setup loads the config, builds the logger and resolves every supported game.
func setup() ([]console.Target, *zap.SugaredLogger, error) {
	cfg, err := core.LoadConfig(ConfigFlag)
	if err != nil {
		return nil, nil, err
	}
	logger, err := core.NewLogger(cfg)
	if err != nil {
		return nil, nil, err
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, logger, fmt.Errorf("finding home directory: %w", err)
	}

	targets, err := resolveTargets(steam.NewResolver(logger), cfg.ExpandedBasePaths(home), sanity.Games, logger)
	if err != nil {
		return nil, logger, err
	}
	return targets, logger, nil
}

// resolveTargets locates each game's executable under the first existing
// Steam base path. Games that aren't installed get a nil Binary.
func resolveTargets(resolver *steam.Resolver, basePaths []string, games []sanity.Game, logger *zap.SugaredLogger) ([]console.Target, error) {
	base, err := resolver.BasePath(basePaths)
	if err != nil {
		return nil, err
	}
	folders, err := resolver.LibraryFolders(base)
	if err != nil {
		// Whatever was found before the index failed is still usable.
		logger.Warnf("error reading steam libraries: %v", err)
	}

	targets := make([]console.Target, 0, len(games))
	for i := range games {
		game := &games[i]
		target := console.Target{Game: game}
		if path := resolver.BinaryPath(folders, game.AppManifest, game.Directory, game.BinaryName); path != "" {
			logger.Debugf("found %s at %s", game.Name, path)
			target.Binary = sanity.NewBinary(game, path, logger)
		}
		targets = append(targets, target)
	}
	return targets, nil
}
