// Package steam locates Steam library folders and the games installed in them.
package steam

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// ErrBaseNotFound is returned when none of the candidate Steam base
// directories exist.
var ErrBaseNotFound = errors.New("steam base path could not be found")

const (
	appsDir      = "steamapps"
	commonDir    = "common"
	libraryIndex = "libraryfolders.vdf"
)

// Resolver finds Steam library folders on the local filesystem.
type Resolver struct {
	logger *zap.SugaredLogger
	// Overridable for tests.
	exists func(string) bool
}

// NewResolver returns a Resolver. A nil logger disables logging.
func NewResolver(logger *zap.SugaredLogger) *Resolver {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Resolver{logger: logger, exists: pathExists}
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// BasePath returns the first of candidates that exists.
func (r *Resolver) BasePath(candidates []string) (string, error) {
	for _, path := range candidates {
		if r.exists(path) {
			r.logger.Debugf("using steam base path %s", path)
			return path, nil
		}
		r.logger.Debugf("steam base path candidate %s does not exist", path)
	}
	return "", fmt.Errorf("%w (tried %s)", ErrBaseNotFound, strings.Join(candidates, ", "))
}

// LibraryFolders returns the steamapps directories under base, the base
// install first followed by any libraries listed in its library index.
func (r *Resolver) LibraryFolders(base string) ([]string, error) {
	var folders []string

	// The base install is almost certainly a library folder itself.
	baseLibrary := filepath.Join(base, appsDir)
	if r.exists(baseLibrary) {
		folders = append(folders, baseLibrary)
	}

	file, err := os.Open(filepath.Join(baseLibrary, libraryIndex))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return folders, nil
		}
		return folders, fmt.Errorf("opening library index: %w", err)
	}
	defer file.Close()

	extra, err := r.ParseLibraryIndex(file)
	if err != nil {
		return folders, fmt.Errorf("reading library index: %w", err)
	}
	folders = append(folders, extra...)
	r.logger.Debugf("library folders: %v", folders)
	return folders, nil
}

// ParseLibraryIndex reads the "<index>" "<path>" lines of a libraryfolders.vdf
// and returns <path>/steamapps for each one that exists. Lines that aren't
// exactly two tokens, or whose first token isn't an integer, are skipped.
func (r *Resolver) ParseLibraryIndex(reader io.Reader) ([]string, error) {
	var folders []string
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		parts := strings.Fields(scanner.Text())
		if len(parts) != 2 {
			continue
		}
		index, path := strings.Trim(parts[0], `"`), strings.Trim(parts[1], `"`)
		if _, err := strconv.Atoi(index); err != nil {
			r.logger.Debugf("skipping library index line with non-numeric key %q", index)
			continue
		}
		dir := filepath.Join(path, appsDir)
		if !r.exists(dir) {
			r.logger.Debugf("library folder %s does not exist", dir)
			continue
		}
		folders = append(folders, dir)
	}
	return folders, scanner.Err()
}

// FindInstall returns the first folder containing manifest, or "" if none do.
func (r *Resolver) FindInstall(folders []string, manifest string) string {
	for _, folder := range folders {
		if r.exists(filepath.Join(folder, manifest)) {
			return folder
		}
	}
	return ""
}

// BinaryPath returns the path of an installed game's executable, or "" when
// the game isn't installed in any of folders.
func (r *Resolver) BinaryPath(folders []string, manifest, directory, binary string) string {
	folder := r.FindInstall(folders, manifest)
	if folder == "" {
		return ""
	}
	path := filepath.Join(folder, commonDir, directory, binary)
	if !r.exists(path) {
		r.logger.Debugf("found %s in %s but %s is missing", manifest, folder, path)
		return ""
	}
	return path
}
