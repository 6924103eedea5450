package sanity

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
)

// Classify reads len(expected) bytes at offset in the file at path and
// compares them against the stock and patched patterns. Reading past the end
// of the file yields StateUnknown with no error; any other failure to read
// the file is returned alongside StateUnknown.
func Classify(path string, offset int64, expected []byte) (State, error) {
	file, err := os.Open(path)
	if err != nil {
		return StateUnknown, fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	data := make([]byte, len(expected))
	if _, err := file.ReadAt(data, offset); err != nil {
		if errors.Is(err, io.EOF) {
			return StateUnknown, nil
		}
		return StateUnknown, fmt.Errorf("reading %d bytes at %#x: %w", len(expected), offset, err)
	}

	switch {
	case bytes.Equal(data, expected):
		return StateStock, nil
	case bytes.Equal(data, bytes.Repeat([]byte{FillerByte}, len(expected))):
		return StatePatched, nil
	default:
		return StateUnknown, nil
	}
}

// WriteAt overwrites len(data) bytes at offset in an existing file.
func WriteAt(path string, offset int64, data []byte) error {
	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("opening %s for writing: %w", path, err)
	}

	if _, err := file.WriteAt(data, offset); err != nil {
		file.Close()
		return fmt.Errorf("writing %d bytes at %#x: %w", len(data), offset, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

// Binary is a Game bound to the location of its executable on disk.
type Binary struct {
	Game *Game
	Path string

	logger *zap.SugaredLogger
}

// NewBinary returns a Binary for game's executable at path. A nil logger
// disables logging.
func NewBinary(game *Game, path string, logger *zap.SugaredLogger) *Binary {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Binary{Game: game, Path: path, logger: logger}
}

// Status reads both check locations from disk.
func (b *Binary) Status() (Status, error) {
	item, err := Classify(b.Path, b.Game.Item.Offset, b.Game.Item.Original)
	if err != nil {
		return Status{Item: StateUnknown, Weapon: StateUnknown}, fmt.Errorf("item check: %w", err)
	}
	weapon, err := Classify(b.Path, b.Game.Weapon.Offset, b.Game.Weapon.Original)
	if err != nil {
		return Status{Item: item, Weapon: StateUnknown}, fmt.Errorf("weapon check: %w", err)
	}
	return Status{Item: item, Weapon: weapon}, nil
}

// Enable restores the original bytes at both check locations.
func (b *Binary) Enable() (Status, error) {
	return b.apply(Check.original)
}

// Disable replaces both check locations with filler.
func (b *Binary) Disable() (Status, error) {
	return b.apply(Check.Filler)
}

func (c Check) original() []byte {
	return c.Original
}

// apply writes replacement(check) for each check and then re-reads the
// status from disk rather than assuming the writes landed.
func (b *Binary) apply(replacement func(Check) []byte) (Status, error) {
	status, err := b.Status()
	if err != nil {
		return status, err
	}
	if status.HasUnknown() {
		return status, ErrUnknownState
	}

	for _, check := range b.Game.Checks() {
		data := replacement(check)
		if err := WriteAt(b.Path, check.Offset, data); err != nil {
			return Status{Item: StateUnknown, Weapon: StateUnknown}, fmt.Errorf("%s check: %w", check.Name, err)
		}
		b.logger.Infof("wrote % X at %#x in %s", data, check.Offset, b.Path)
	}
	return b.Status()
}
