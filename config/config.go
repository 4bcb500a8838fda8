// Package config loads morsechat settings from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ystepanoff/morsechat/morse"
	"github.com/ystepanoff/morsechat/protocol"
)

const (
	DriverUDP  = "udp"
	DriverStub = "stub"
)

// Config is the full configuration file.
type Config struct {
	// DeviceID identifies this handset on the air. Zero picks a random one.
	DeviceID uint32 `yaml:"device_id"`

	Log     Log     `yaml:"log"`
	Radio   Radio   `yaml:"radio"`
	Input   Input   `yaml:"input"`
	App     App     `yaml:"app"`
	Capture Capture `yaml:"capture"`
}

type Log struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
	File        string `yaml:"file"` // empty means stderr
}

type Radio struct {
	Driver    string   `yaml:"driver"` // udp, stub
	Group     string   `yaml:"group"`
	Interface string   `yaml:"interface"`
	Channel   uint8    `yaml:"channel"`
	RxTimeout Duration `yaml:"rx_timeout"`
}

// Input sets how long simulated presses are held.
type Input struct {
	ShortPress   Duration `yaml:"short_press"`
	LongPress    Duration `yaml:"long_press"`
	RecoveryHold Duration `yaml:"recovery_hold"`
}

type App struct {
	TypingWindow Duration `yaml:"typing_window"`
	Announce     bool     `yaml:"announce"`
}

type Capture struct {
	Path string `yaml:"path"` // pcap file; empty disables capture
}

// Duration reads and writes "300ms" style strings.
type Duration struct{ time.Duration }

func (d Duration) MarshalYAML() (any, error) { return d.String(), nil }

func (d *Duration) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	d.Duration = v
	return nil
}

// SearchPaths are tried in order when no file is named.
func SearchPaths() []string {
	paths := []string{"morsechat.yaml", ".morsechat.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "morsechat", "config.yaml"))
	}
	return paths
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log: Log{
			Level: "info",
		},
		Radio: Radio{
			Driver:    DriverUDP,
			Group:     "239.77.77.77:47000",
			Channel:   protocol.DefaultChannel,
			RxTimeout: Duration{100 * time.Millisecond},
		},
		Input: Input{
			ShortPress:   Duration{80 * time.Millisecond},
			LongPress:    Duration{300 * time.Millisecond},
			RecoveryHold: Duration{time.Second},
		},
		App: App{
			TypingWindow: Duration{10 * time.Second},
			Announce:     true,
		},
	}
}

// Load reads path over the defaults. With an empty path the first
// existing SearchPaths entry is used, and no file at all is not an error.
// Durations the file sets to zero fall back to their defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		for _, p := range SearchPaths() {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		cfg.fillZeroDurations()
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// fillZeroDurations puts back defaults for durations a file set to zero.
// Negative values are left for Validate.
func (c *Config) fillZeroDurations() {
	def := Default()
	for _, p := range []struct{ dst, src *Duration }{
		{&c.Radio.RxTimeout, &def.Radio.RxTimeout},
		{&c.Input.ShortPress, &def.Input.ShortPress},
		{&c.Input.LongPress, &def.Input.LongPress},
		{&c.Input.RecoveryHold, &def.Input.RecoveryHold},
		{&c.App.TypingWindow, &def.App.TypingWindow},
	} {
		if p.dst.Duration == 0 {
			*p.dst = *p.src
		}
	}
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("MORSECHAT_DEVICE_ID"); v != "" {
		id, err := strconv.ParseUint(v, 0, 32)
		if err != nil {
			return fmt.Errorf("MORSECHAT_DEVICE_ID: %w", err)
		}
		c.DeviceID = uint32(id)
	}
	if v := os.Getenv("MORSECHAT_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("MORSECHAT_GROUP"); v != "" {
		c.Radio.Group = v
	}
	return nil
}

// Validate checks values the rest of the program relies on.
func (c *Config) Validate() error {
	var errs []error
	switch c.Radio.Driver {
	case DriverUDP, DriverStub:
	default:
		errs = append(errs, fmt.Errorf("radio.driver: unknown driver %q (valid: %s, %s)", c.Radio.Driver, DriverUDP, DriverStub))
	}
	if c.Radio.Channel > protocol.MaxChannel {
		errs = append(errs, fmt.Errorf("radio.channel: %d exceeds %d", c.Radio.Channel, protocol.MaxChannel))
	}

	positive := map[string]Duration{
		"radio.rx_timeout":    c.Radio.RxTimeout,
		"input.short_press":   c.Input.ShortPress,
		"input.long_press":    c.Input.LongPress,
		"input.recovery_hold": c.Input.RecoveryHold,
		"app.typing_window":   c.App.TypingWindow,
	}
	for name, d := range positive {
		if d.Duration <= 0 {
			errs = append(errs, fmt.Errorf("%s: must be positive", name))
		}
	}

	if morse.Classify(c.Input.ShortPress.Duration) != morse.Short {
		errs = append(errs, fmt.Errorf("input.short_press: %v would read as a dash", c.Input.ShortPress))
	}
	if morse.Classify(c.Input.LongPress.Duration) != morse.Long {
		errs = append(errs, fmt.Errorf("input.long_press: %v would read as a dot", c.Input.LongPress))
	}
	return errors.Join(errs...)
}
