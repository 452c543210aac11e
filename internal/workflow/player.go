package workflow

import (
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/cuivienor/clipdeck/internal/config"
)

var errNoPlayer = errors.New("no preview player configured")

// Player opens preview media at a position
type Player interface {
	Play(mediaURL string, start float64) error
}

// ExecPlayer launches an external media player. Each "{start}" in Args is
// replaced with the seek position in seconds and the media URL is appended.
type ExecPlayer struct {
	Command string
	Args    []string
}

// NewExecPlayer creates a player for command and args
func NewExecPlayer(command string, args []string) *ExecPlayer {
	return &ExecPlayer{Command: command, Args: args}
}

// Play starts the player without waiting for it to exit
func (p *ExecPlayer) Play(mediaURL string, start float64) error {
	if p.Command == "" {
		return errNoPlayer
	}

	cmd := exec.Command(p.Command, p.argv(mediaURL, start)...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", p.Command, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

func (p *ExecPlayer) argv(mediaURL string, start float64) []string {
	pos := strconv.FormatFloat(start, 'f', -1, 64)
	args := make([]string, 0, len(p.Args)+1)
	for _, a := range p.Args {
		args = append(args, strings.ReplaceAll(a, config.StartPlaceholder, pos))
	}
	return append(args, mediaURL)
}
