// Package config reads service settings from the environment and batch runs from YAML files.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/remigerme/the-crew-solver/deck"
	"github.com/remigerme/the-crew-solver/protocol"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid configuration")

const (
	defaultAddr          = ":8000"
	defaultLogLevel      = "info"
	defaultProgressEvery = 100000
	defaultJobTimeout    = time.Minute
)

// Config holds the settings shared by the binaries. Workers defaults to the number of CPUs.
type Config struct {
	Addr          string        `env:"CREW_ADDR,default=:8000"`
	Workers       int           `env:"CREW_WORKERS"`
	LogLevel      string        `env:"CREW_LOG_LEVEL,default=info"`
	Seed          int64         `env:"CREW_SEED"`
	ProgressEvery int           `env:"CREW_PROGRESS_EVERY,default=100000"`
	JobTimeout    time.Duration `env:"CREW_JOB_TIMEOUT,default=1m"`
}

// FromEnv decodes the CREW_* variables. An environment without any of them yields the defaults.
func FromEnv() (Config, error) {
	var c Config
	if err := envdecode.Decode(&c); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	c = c.withDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) withDefaults() Config {
	if c.Addr == "" {
		c.Addr = defaultAddr
	}
	if c.Workers == 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	if c.ProgressEvery == 0 {
		c.ProgressEvery = defaultProgressEvery
	}
	if c.JobTimeout == 0 {
		c.JobTimeout = defaultJobTimeout
	}
	return c
}

func (c Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("%w: CREW_WORKERS must be positive, got %d", ErrInvalidConfig, c.Workers)
	}
	if c.ProgressEvery < 0 {
		return fmt.Errorf("%w: CREW_PROGRESS_EVERY must be positive, got %d", ErrInvalidConfig, c.ProgressEvery)
	}
	if c.JobTimeout < 0 {
		return fmt.Errorf("%w: CREW_JOB_TIMEOUT must be positive, got %s", ErrInvalidConfig, c.JobTimeout)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Logger builds a logger writing to out at the configured level.
func (c Config) Logger(out io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return logger, nil
}

// Batch describes a run of the batch solver: for every difficulty budget in
// [DifficultyMin, DifficultyMax], Samples random deals of Players players.
type Batch struct {
	Samples       int           `yaml:"samples"`
	Players       int           `yaml:"players"`
	DifficultyMin int           `yaml:"difficulty_min"`
	DifficultyMax int           `yaml:"difficulty_max"`
	Out           string        `yaml:"out,omitempty"`
	Mode          protocol.Mode `yaml:"mode,omitempty"`
}

// LoadBatch reads a batch file.
func LoadBatch(path string) (Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Batch{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	b, err := ParseBatch(data)
	if err != nil {
		return Batch{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return b, nil
}

// ParseBatch decodes and validates a batch. Mode defaults to stats.
func ParseBatch(data []byte) (Batch, error) {
	var b Batch
	if err := yaml.Unmarshal(data, &b); err != nil {
		return Batch{}, fmt.Errorf("decode batch: %w", err)
	}
	if b.Mode == "" {
		b.Mode = protocol.ModeStats
	}
	if err := b.Validate(); err != nil {
		return Batch{}, err
	}
	return b, nil
}

func (b Batch) Validate() error {
	if err := deck.CheckPlayerCount(b.Players); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if b.Samples < 1 {
		return fmt.Errorf("%w: samples must be at least 1, got %d", ErrInvalidConfig, b.Samples)
	}
	if b.DifficultyMin < 0 || b.DifficultyMin > b.DifficultyMax {
		return fmt.Errorf("%w: difficulty range [%d, %d]", ErrInvalidConfig, b.DifficultyMin, b.DifficultyMax)
	}
	if !b.Mode.Valid() {
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, b.Mode)
	}
	return nil
}
