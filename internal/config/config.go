package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mgpai22/segytrim/internal/logging"
	"github.com/mgpai22/segytrim/internal/trim"
)

// default output directory, relative to the working directory
const DefaultDestination = "TRIM"

// Config holds the parameters of a trim run as read from a YAML file.
// Pointers distinguish unset values from zero.
type Config struct {
	Files        []string       `yaml:"files"`
	StartTime    *float64       `yaml:"start_time"`
	EndTime      *float64       `yaml:"end_time"`
	Destination  string         `yaml:"destination"`
	Overwrite    bool           `yaml:"overwrite"`
	TimePerTrace *time.Duration `yaml:"time_per_trace"`
	TotalTraces  int            `yaml:"total_traces"`
	FileCount    int            `yaml:"file_count"`
	ETAMode      trim.ETAMode   `yaml:"eta_mode"`
	Log          logging.Config `yaml:"log"`
}

// reads a YAML config; relative file patterns and destination are taken
// relative to the directory holding the config
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	var conf Config
	if err := yaml.Unmarshal(b, &conf); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	base := filepath.Dir(path)
	for i, pattern := range conf.Files {
		conf.Files[i] = resolve(base, pattern)
	}
	if conf.Destination != "" {
		conf.Destination = resolve(base, conf.Destination)
	}
	if err := conf.ETAMode.Set(string(conf.ETAMode)); err != nil {
		return nil, err
	}
	if err := conf.Log.Mode.Set(string(conf.Log.Mode)); err != nil {
		return nil, err
	}
	return &conf, nil
}

func resolve(base, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// trim options derived from the config, with defaults applied
func (c *Config) BatchOptions() (trim.BatchOptions, error) {
	if c.StartTime == nil || c.EndTime == nil {
		return trim.BatchOptions{}, errors.New("start and end time are required")
	}
	if *c.EndTime <= *c.StartTime {
		return trim.BatchOptions{}, fmt.Errorf(
			"end time %g ms must be after start time %g ms",
			*c.EndTime,
			*c.StartTime,
		)
	}
	if c.TotalTraces < 0 || c.FileCount < 0 {
		return trim.BatchOptions{}, errors.New("trace and file count hints cannot be negative")
	}
	opts := trim.BatchOptions{
		Options: trim.Options{
			StartTime:   *c.StartTime,
			EndTime:     *c.EndTime,
			Destination: c.Destination,
			Overwrite:   c.Overwrite,
		},
		TimePerTrace: trim.DefaultTimePerTrace,
		TotalTraces:  c.TotalTraces,
		FileCount:    c.FileCount,
		ETAMode:      c.ETAMode,
	}
	if opts.Destination == "" {
		opts.Destination = DefaultDestination
	}
	if c.TimePerTrace != nil {
		if *c.TimePerTrace <= 0 {
			return trim.BatchOptions{}, errors.New("time per trace must be positive")
		}
		opts.TimePerTrace = *c.TimePerTrace
	}
	if opts.ETAMode == "" {
		opts.ETAMode = trim.ETAExact
	}
	return opts, nil
}
