package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"tableflip.dev/boost/pkg/timeutil"
)

const (
	DefaultAPI      = "https://api.boostmeup.hannahc.be/api"
	DefaultInterval = 3 * time.Second
	DefaultReveal   = 100 * time.Millisecond
	DefaultLifetime = 10 * time.Second
)

// Config exposes the settings boost reads from .boost.yaml, BOOST_* env vars
// and their defaults.
type Config interface {
	BasePath() string
	APIBase() string
	LogPath() string
	Cadence() Cadence
}

// Cadence controls the ambient reminders.
type Cadence struct {
	// Interval between two reminders.
	Interval time.Duration
	// Reveal is the delay before a new reminder becomes visible.
	Reveal time.Duration
	// Lifetime is measured from creation; the reminder is removed afterwards.
	Lifetime time.Duration
}

func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetDefault("path", "~/.boost.db")
	v.SetDefault("api", DefaultAPI)
	v.SetDefault("log", "")
	v.SetDefault("interval", timeutil.FormatDuration(DefaultInterval))
	v.SetDefault("reveal", timeutil.FormatDuration(DefaultReveal))
	v.SetDefault("lifetime", timeutil.FormatDuration(DefaultLifetime))
	v.SetConfigName(".boost") // .yaml is implicit
	v.SetEnvPrefix("BOOST")
	v.AutomaticEnv()

	if override := os.Getenv("BOOST_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}

	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	base, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand path: %w", err)
	}
	logPath := v.GetString("log")
	if logPath == "" {
		logPath = filepath.Join(base, "boost.log")
	} else if logPath, err = homedir.Expand(logPath); err != nil {
		return nil, fmt.Errorf("store: expand log path: %w", err)
	}

	cfg := &fileConfig{
		Path: base,
		API:  v.GetString("api"),
		Log:  logPath,
	}
	if cfg.Cad.Interval, _, err = timeutil.ParseCadence(v.GetString("interval"), DefaultInterval); err != nil {
		return nil, fmt.Errorf("store: interval: %w", err)
	}
	if cfg.Cad.Reveal, _, err = timeutil.ParseCadence(v.GetString("reveal"), DefaultReveal); err != nil {
		return nil, fmt.Errorf("store: reveal: %w", err)
	}
	if cfg.Cad.Lifetime, _, err = timeutil.ParseCadence(v.GetString("lifetime"), DefaultLifetime); err != nil {
		return nil, fmt.Errorf("store: lifetime: %w", err)
	}
	return cfg, nil
}

type fileConfig struct {
	Path string  `json:"path"`
	API  string  `json:"api"`
	Log  string  `json:"log"`
	Cad  Cadence `json:"cadence"`
}

func (f *fileConfig) BasePath() string {
	return f.Path
}

func (f *fileConfig) APIBase() string {
	return f.API
}

func (f *fileConfig) LogPath() string {
	return f.Log
}

func (f *fileConfig) Cadence() Cadence {
	return f.Cad
}

// StaticConfig is a Config with fixed values, handy for tests and embedding.
type StaticConfig struct {
	Path string
	API  string
	Log  string
	Cad  Cadence
}

func (s StaticConfig) BasePath() string { return s.Path }
func (s StaticConfig) APIBase() string  { return s.API }
func (s StaticConfig) LogPath() string  { return s.Log }

func (s StaticConfig) Cadence() Cadence {
	c := s.Cad
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	if c.Reveal <= 0 {
		c.Reveal = DefaultReveal
	}
	if c.Lifetime <= 0 {
		c.Lifetime = DefaultLifetime
	}
	return c
}
