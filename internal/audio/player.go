package audio

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/smokyabdulrahman/adhan/internal/prayer"
)

// Player runs one playback at a time. Starting a new one stops the old.
type Player struct {
	catalog *Catalog

	mu  sync.Mutex
	cmd *exec.Cmd
}

// NewPlayer returns a player for the catalogue.
func NewPlayer(c *Catalog) *Player {
	return &Player{catalog: c}
}

// Play starts the recording for an event and returns without waiting for
// it to finish. Silenced events are not an error.
func (p *Player) Play(ctx context.Context, name prayer.EventName) error {
	file, err := p.catalog.Resolve(name)
	if errors.Is(err, ErrDisabled) {
		log.Debug().Str("event", string(name)).Msg("audio disabled")
		return nil
	}
	if err != nil {
		return err
	}
	return p.PlayFile(ctx, file)
}

// PlayFile starts the player command on a file.
func (p *Player) PlayFile(ctx context.Context, file string) error {
	argv := p.catalog.Player
	if len(argv) == 0 {
		argv = DefaultPlayer
	}
	args := append(append([]string{}, argv[1:]...), file)

	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()
	cmd := exec.CommandContext(ctx, argv[0], args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", argv[0], err)
	}
	p.cmd = cmd
	log.Info().Str("file", file).Int("pid", cmd.Process.Pid).Msg("playing adhan")

	go func() {
		err := cmd.Wait()
		p.mu.Lock()
		if p.cmd == cmd {
			p.cmd = nil
		}
		p.mu.Unlock()
		if err != nil && ctx.Err() == nil {
			log.Debug().Err(err).Str("file", file).Msg("player exited")
		}
	}()
	return nil
}

// Playing reports whether a recording is running.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cmd != nil
}

// Stop kills the current playback, if any.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Player) stopLocked() {
	if p.cmd == nil || p.cmd.Process == nil {
		return
	}
	_ = p.cmd.Process.Kill()
	p.cmd = nil
}
