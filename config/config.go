package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"grid-snake/game/types"
)

const (
	BackendWindow   = "window"
	BackendTerminal = "terminal"

	// EnvFile is read from the working directory when present.
	EnvFile = ".env"
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	GridWidth     int
	GridHeight    int
	TickInterval  time.Duration
	PollInterval  time.Duration
	CellSize      int
	Backend       string
	Seed          uint64
	Autopilot     bool
	Sound         bool
	RestartOnLoss bool
	LogFile       string
}

func Defaults() Config {
	return Config{
		GridWidth:    types.DefaultWidth,
		GridHeight:   types.DefaultHeight,
		TickInterval: 100 * time.Millisecond,
		PollInterval: 5 * time.Millisecond,
		CellSize:     20,
		Backend:      BackendWindow,
	}
}

// Load builds the config from defaults, the .env file, SNAKE_* variables
// and finally the command line.
func Load(args []string) (Config, error) {
	return LoadFile(EnvFile, args)
}

// LoadFile is Load with an explicit env file path. A missing file is not an
// error. Variables already set in the process environment win over the file.
func LoadFile(envFile string, args []string) (Config, error) {
	cfg := Defaults()

	fileVars, err := godotenv.Read(envFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("read %s: %w", envFile, err)
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileVars[key]
		return v, ok
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return cfg, err
	}

	flags := flag.NewFlagSet("grid-snake", flag.ContinueOnError)
	flags.IntVar(&cfg.GridWidth, "width", cfg.GridWidth, "Grid width in cells")
	flags.IntVar(&cfg.GridHeight, "height", cfg.GridHeight, "Grid height in cells")
	flags.DurationVar(&cfg.TickInterval, "tick", cfg.TickInterval, "Time between simulation ticks")
	flags.DurationVar(&cfg.PollInterval, "poll", cfg.PollInterval, "Time between input polls")
	flags.IntVar(&cfg.CellSize, "cell", cfg.CellSize, "Cell size in pixels (window backend)")
	flags.StringVar(&cfg.Backend, "backend", cfg.Backend, "Render backend: window or terminal")
	flags.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed (0 = time based)")
	flags.BoolVar(&cfg.Autopilot, "autopilot", cfg.Autopilot, "Let the Q-learning agent steer")
	flags.BoolVar(&cfg.Sound, "sound", cfg.Sound, "Play audio cues")
	flags.BoolVar(&cfg.RestartOnLoss, "restart-on-loss", cfg.RestartOnLoss, "Start a new round automatically after a loss")
	flags.StringVar(&cfg.LogFile, "log", cfg.LogFile, "Log file (terminal backend logs nowhere without it)")
	if err := flags.Parse(args); err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	ints := map[string]*int{
		"SNAKE_WIDTH":  &c.GridWidth,
		"SNAKE_HEIGHT": &c.GridHeight,
		"SNAKE_CELL":   &c.CellSize,
	}
	for key, dst := range ints {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%w: %s=%q", ErrInvalid, key, v)
			}
			*dst = n
		}
	}

	durations := map[string]*time.Duration{
		"SNAKE_TICK": &c.TickInterval,
		"SNAKE_POLL": &c.PollInterval,
	}
	for key, dst := range durations {
		if v, ok := lookup(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%w: %s=%q", ErrInvalid, key, v)
			}
			*dst = d
		}
	}

	bools := map[string]*bool{
		"SNAKE_AUTOPILOT":       &c.Autopilot,
		"SNAKE_SOUND":           &c.Sound,
		"SNAKE_RESTART_ON_LOSS": &c.RestartOnLoss,
	}
	for key, dst := range bools {
		if v, ok := lookup(key); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%w: %s=%q", ErrInvalid, key, v)
			}
			*dst = b
		}
	}

	if v, ok := lookup("SNAKE_SEED"); ok && v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: SNAKE_SEED=%q", ErrInvalid, v)
		}
		c.Seed = n
	}
	if v, ok := lookup("SNAKE_BACKEND"); ok && v != "" {
		c.Backend = v
	}
	if v, ok := lookup("SNAKE_LOG"); ok {
		c.LogFile = v
	}
	return nil
}

func (c Config) Validate() error {
	switch {
	case c.GridWidth < types.MinDimension || c.GridHeight < types.MinDimension:
		return fmt.Errorf("%w: grid %dx%d is smaller than %dx%d", ErrInvalid,
			c.GridWidth, c.GridHeight, types.MinDimension, types.MinDimension)
	case c.TickInterval <= 0 || c.PollInterval <= 0:
		return fmt.Errorf("%w: intervals must be positive", ErrInvalid)
	case c.PollInterval > c.TickInterval:
		return fmt.Errorf("%w: poll interval %v exceeds tick interval %v", ErrInvalid,
			c.PollInterval, c.TickInterval)
	case c.CellSize <= 0:
		return fmt.Errorf("%w: cell size %d", ErrInvalid, c.CellSize)
	case c.Backend != BackendWindow && c.Backend != BackendTerminal:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalid, c.Backend)
	}
	return nil
}
