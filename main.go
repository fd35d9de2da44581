package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/exp/rand"

	"grid-snake/ai"
	"grid-snake/audio"
	"grid-snake/config"
	"grid-snake/engine"
	"grid-snake/game"
	"grid-snake/game/manager"
	"grid-snake/game/types"
	"grid-snake/input"
	"grid-snake/ui"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.Load(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "grid-snake: %v\n", err)
		return 2
	}

	state := manager.NewStateManager()
	logger, closeLog, err := newLogger(cfg, state.ShortID())
	if err != nil {
		fmt.Fprintf(os.Stderr, "grid-snake: %v\n", err)
		return 1
	}
	defer closeLog()

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	grid, err := game.NewSnakeGrid(cfg.GridWidth, cfg.GridHeight, rand.New(rand.NewSource(seed)))
	if err != nil {
		logger.Printf("create grid: %v", err)
		return 1
	}
	logger.Printf("session %s: %dx%d grid, backend %s, tick %v, seed %d",
		state.SessionID, cfg.GridWidth, cfg.GridHeight, cfg.Backend, cfg.TickInterval, seed)

	sink, source, closeBackend, err := openBackend(cfg)
	if err != nil {
		logger.Printf("open %s backend: %v", cfg.Backend, err)
		fmt.Fprintf(os.Stderr, "grid-snake: %v\n", err)
		return 1
	}
	defer closeBackend()

	if cfg.Autopilot {
		pilot := ai.NewAutopilot(grid, rand.New(rand.NewSource(seed+1)))
		source = input.Combined{pilot, source}
		logger.Printf("autopilot enabled")
	}

	var listeners []engine.Listener
	if cfg.Sound {
		cues := audio.New(logger)
		defer cues.Close()
		listeners = append(listeners, cues)
	}

	loop := engine.NewLoop(grid, state, source, sink, engine.Options{
		TickInterval:  cfg.TickInterval,
		PollInterval:  cfg.PollInterval,
		RestartOnLoss: cfg.RestartOnLoss,
		Logger:        logger,
		Listeners:     listeners,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := loop.Run(ctx); err != nil {
		logger.Printf("game loop: %v", err)
		return 1
	}
	for _, r := range state.History() {
		logger.Printf("round %d: %s after %d ticks, %d growths", r.Round, r.Result, r.Ticks, r.Growths)
	}
	return 0
}

// newLogger writes to stderr for the window backend. The terminal backend
// owns the tty, so it logs to cfg.LogFile or nowhere.
func newLogger(cfg config.Config, sessionID string) (*log.Logger, func(), error) {
	prefix := fmt.Sprintf("[%s] ", sessionID)
	if cfg.Backend == config.BackendWindow && cfg.LogFile == "" {
		return log.New(os.Stderr, prefix, log.LstdFlags), func() {}, nil
	}
	if cfg.LogFile == "" {
		return log.New(io.Discard, prefix, log.LstdFlags), func() {}, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return log.New(f, prefix, log.LstdFlags), func() { f.Close() }, nil
}

func openBackend(cfg config.Config) (engine.Sink, input.Source, func(), error) {
	grid := types.Grid{Width: cfg.GridWidth, Height: cfg.GridHeight}

	switch cfg.Backend {
	case config.BackendTerminal:
		screen, err := ui.NewScreen()
		if err != nil {
			return nil, nil, nil, err
		}
		sink := ui.NewTerminal(screen)
		keys := input.NewTerminal(screen)
		return sink, keys, func() {
			sink.Close()
			keys.Close()
		}, nil
	default:
		renderer, err := ui.NewRenderer(grid, cfg.CellSize)
		if err != nil {
			return nil, nil, nil, err
		}
		return renderer, input.NewKeyboard(), renderer.Close, nil
	}
}
