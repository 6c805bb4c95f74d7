package player

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// DefaultCommand is the player used when none is configured.
const DefaultCommand = "mpv"

// ErrPlayerMissing is returned when the player executable is not on PATH.
var ErrPlayerMissing = errors.New("player is not installed")

// Player runs an external media player.
type Player struct {
	command string
}

// New creates a Player for command. An empty command means DefaultCommand.
func New(command string) *Player {
	if command == "" {
		command = DefaultCommand
	}
	return &Player{command: command}
}

// Name returns the configured player command.
func (p *Player) Name() string {
	return p.command
}

// Available reports whether the player can be found and returns its path.
func (p *Player) Available() (string, bool) {
	path, err := exec.LookPath(p.command)
	if err != nil {
		return "", false
	}
	return path, true
}

// Args returns the player arguments for playlist.
func (p *Player) Args(playlist string) []string {
	return []string{"--playlist=" + playlist}
}

// Command builds the player process for playlist, running in dir with
// the terminal's standard streams.
func (p *Player) Command(dir, playlist string) *exec.Cmd {
	cmd := exec.Command(p.command, p.Args(playlist)...)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd
}

// Play runs the player on playlist and waits for it to exit.
//
// Returns ErrPlayerMissing when the player cannot be found. Cancelling
// ctx kills the player.
func (p *Player) Play(ctx context.Context, dir, playlist string) error {
	path, ok := p.Available()
	if !ok {
		return fmt.Errorf("%s: %w", p.command, ErrPlayerMissing)
	}

	cmd := exec.CommandContext(ctx, path, p.Args(playlist)...)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s exited: %w", p.command, err)
	}
	return nil
}
