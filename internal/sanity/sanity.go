// Package sanity inspects and toggles the item/weapon sanity checks in the
// Linux builds of Borderlands 2 and Borderlands: The Pre-Sequel.
//
// The state of each check lives entirely in the executable: the call is either
// present with its original bytes, replaced with a run of NOPs of the same
// length, or something we don't recognize.
package sanity

import (
	"bytes"
	"errors"
)

// FillerByte is the x86 NOP used to blank out the sanity check calls.
const FillerByte = 0x90

// ErrUnknownState is returned when asked to modify a binary whose check
// locations don't hold either of the known byte patterns.
var ErrUnknownState = errors.New("binary is in an unknown state")

// State is the classification of the bytes at one check location.
type State int

const (
	StateStock State = iota
	StatePatched
	StateUnknown
)

func (s State) String() string {
	switch s {
	case StateStock:
		return "Stock (sanity checks ON)"
	case StatePatched:
		return "Edited (sanity checks OFF)"
	default:
		return "Unknown"
	}
}

// Check is a single location in a binary at which a sanity check is invoked.
type Check struct {
	Name     string
	Offset   int64
	Original []byte
}

// Filler returns the replacement for Original: FillerByte repeated to the same length.
func (c Check) Filler() []byte {
	return bytes.Repeat([]byte{FillerByte}, len(c.Original))
}

// Game describes one supported game and where its checks live.
type Game struct {
	// Short name used to select the game on the command line.
	Key  string
	Name string
	// Directory under <library>/common.
	Directory  string
	BinaryName string
	// Steam app manifest whose presence marks the library holding the game.
	AppManifest string

	Item   Check
	Weapon Check
}

// Checks returns the game's check locations in display order.
func (g *Game) Checks() []Check {
	return []Check{g.Item, g.Weapon}
}

// Games is the table of supported games.
var Games = []Game{
	{
		Key:         "bl2",
		Name:        "Borderlands 2",
		Directory:   "Borderlands 2",
		BinaryName:  "Borderlands2",
		AppManifest: "appmanifest_49520.acf",
		Item: Check{
			Name:     "Item",
			Offset:   0xD267F0,
			Original: []byte{0xE8, 0xA9, 0x24, 0x17, 0x00},
		},
		Weapon: Check{
			Name:     "Weapon",
			Offset:   0xD26870,
			Original: []byte{0xE8, 0xF7, 0x23, 0x17, 0x00},
		},
	},
	{
		Key:         "tps",
		Name:        "Borderlands: The Pre-Sequel",
		Directory:   "BorderlandsPreSequel",
		BinaryName:  "BorderlandsPreSequel",
		AppManifest: "appmanifest_261640.acf",
		Item: Check{
			Name:     "Item",
			Offset:   0xCFE148,
			Original: []byte{0xE8, 0xCF, 0x94, 0x17, 0x00},
		},
		Weapon: Check{
			Name:     "Weapon",
			Offset:   0xCFE1C8,
			Original: []byte{0xE8, 0x0D, 0x94, 0x17, 0x00},
		},
	},
}

// Status is the pair of check states for a binary. The two are reported
// separately rather than merged.
type Status struct {
	Item   State
	Weapon State
}

// HasUnknown reports whether either check is unrecognized, in which case the
// binary must not be touched.
func (s Status) HasUnknown() bool {
	return s.Item == StateUnknown || s.Weapon == StateUnknown
}

// CanDisable reports whether at least one check is still stock.
func (s Status) CanDisable() bool {
	return s.Item == StateStock || s.Weapon == StateStock
}

// CanEnable reports whether at least one check has been patched out.
func (s Status) CanEnable() bool {
	return s.Item == StatePatched || s.Weapon == StatePatched
}
