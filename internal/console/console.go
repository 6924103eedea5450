// Package console runs the interactive prompt that walks the user through
// each supported game.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"

	"github.com/bl-modding/bl-sanity/internal/sanity"
)

// ErrQuit is returned from Run when the user asks to quit.
var ErrQuit = errors.New("quit")

// Target is one game to offer to the user. Binary is nil when the game's
// install couldn't be found.
type Target struct {
	Game   *sanity.Game
	Binary *sanity.Binary
}

// Prompter drives the line-based menu over in and out.
type Prompter struct {
	in     *bufio.Reader
	out    io.Writer
	logger *zap.SugaredLogger
	fold   cases.Caser
}

// NewPrompter returns a Prompter reading choices from in and writing to out.
func NewPrompter(in io.Reader, out io.Writer, logger *zap.SugaredLogger) *Prompter {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Prompter{
		in:     bufio.NewReader(in),
		out:    out,
		logger: logger,
		fold:   cases.Fold(),
	}
}

// Run walks through targets in order. It returns ErrQuit as soon as the user
// quits; errors with an individual target are reported and don't stop the
// remaining targets from being processed.
func (p *Prompter) Run(targets []Target) error {
	for _, target := range targets {
		if target.Binary == nil {
			p.printf("\nInstall directory for %q not found.\n\n", target.Game.Name)
			p.waitForEnter()
			continue
		}

		if err := p.runTarget(target.Binary); err != nil {
			if errors.Is(err, ErrQuit) {
				return err
			}
			p.logger.Errorf("error processing %s: %v", target.Game.Name, err)
			p.printf("\nError processing %q: %v\n\n", target.Game.Name, err)
			p.waitForEnter()
		}
	}
	return nil
}

func (p *Prompter) runTarget(binary *sanity.Binary) error {
	status, err := binary.Status()
	if err != nil {
		return err
	}

	for {
		p.printStatus(binary.Game, status)

		if status.HasUnknown() {
			p.printf("Refusing to do anything with the binary in an unknown state!\n\n")
			p.waitForEnter()
			return nil
		}

		offerDisable, offerEnable := status.CanDisable(), status.CanEnable()
		p.printf("Choose an option:\n")
		if offerDisable {
			p.printf("  [D]isable the sanity checks\n")
		}
		if offerEnable {
			p.printf("  [E]nable the sanity checks\n")
		}
		p.printf("  [Q]uit\n")
		p.printf("  (any other input will skip)\n\n")
		p.printf("Your Choice For %s> ", binary.Game.Name)

		switch choice := p.readChoice(); {
		case offerDisable && choice == "d":
			if status, err = binary.Disable(); err != nil {
				return err
			}
		case offerEnable && choice == "e":
			if status, err = binary.Enable(); err != nil {
				return err
			}
		case choice == "q":
			return ErrQuit
		default:
			return nil
		}
	}
}

func (p *Prompter) printStatus(game *sanity.Game, status sanity.Status) {
	p.printf("\nFound %s\n", game.Name)
	p.printf("  %s Sanity Check State: %s\n", game.Item.Name, status.Item)
	p.printf("  %s Sanity Check State: %s\n\n", game.Weapon.Name, status.Weapon)
}

// readChoice returns the next line of input, trimmed and case folded. EOF
// reads as an empty line.
func (p *Prompter) readChoice() string {
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		p.logger.Warnf("reading input: %v", err)
	}
	return p.fold.String(strings.TrimSpace(line))
}

func (p *Prompter) waitForEnter() {
	p.printf("Press Enter to Continue...\n")
	p.readChoice()
}

func (p *Prompter) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.out, format, args...)
}
