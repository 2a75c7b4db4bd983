// Package playback hands a rendered WAV file to an external player
// command. The core itself never touches an audio device; this exists
// for the vox-say tuning workflow.
package playback

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/mattn/go-shellwords"
)

// Player runs a configured external command with the WAV path appended.
type Player struct {
	cmd []string
}

// NewPlayer parses the configured command, e.g. "aplay -q".
func NewPlayer(command string) (*Player, error) {
	parser := shellwords.NewParser()
	args, err := parser.Parse(command)
	if err != nil {
		return nil, fmt.Errorf("parse playback command: %w", err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("playback command empty")
	}
	return &Player{cmd: args}, nil
}

// Play blocks until the player exits.
func (p *Player) Play(ctx context.Context, wavPath string) error {
	args := append([]string{}, p.cmd[1:]...)
	args = append(args, wavPath)
	cmd := exec.CommandContext(ctx, p.cmd[0], args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("playback command failed: %w: %s", err, out)
	}
	return nil
}
