// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package config holds the YAML configuration of the ssd1681demo command.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/GermanBionicSystems/epaper/ssd1681"
	"github.com/GermanBionicSystems/epaper/ssd1681/image2bit"
	"gopkg.in/yaml.v3"
)

// Pins names the GPIO lines wired to the panel, as known to gpioreg. When DC
// is empty the Raspberry Pi HAT wiring is used.
type Pins struct {
	DC   string `yaml:"dc"`
	CS   string `yaml:"cs,omitempty"`
	RST  string `yaml:"rst"`
	Busy string `yaml:"busy"`
}

// Config is the top-level command configuration.
type Config struct {
	// SPI is the spireg port name. Empty selects the first port.
	SPI  string `yaml:"spi"`
	Pins Pins   `yaml:"pins"`

	// Waveform is one of "full", "partial" or "gray4".
	Waveform string `yaml:"waveform"`
	// Rotation is one of "0", "90", "180" or "270".
	Rotation string `yaml:"rotation"`
	// BusyTimeout bounds each wait on the busy line.
	BusyTimeout time.Duration `yaml:"busy_timeout"`

	// Text is drawn in the middle of the panel.
	Text string `yaml:"text"`
	// Preview also renders the image to the terminal.
	Preview bool `yaml:"preview"`
	// LogLevel is one of "debug", "info" or "error".
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Waveform:    "full",
		Rotation:    "0",
		BusyTimeout: ssd1681.DefaultBusyTimeout,
		Text:        "Hello from periph!",
		LogLevel:    "info",
	}
}

// Normalize fills in missing values and replaces unknown ones with defaults.
func (c *Config) Normalize() {
	var m ssd1681.LUTMode
	if m.Set(c.Waveform) != nil {
		c.Waveform = "full"
	}
	var r image2bit.Rotation
	if r.Set(c.Rotation) != nil {
		c.Rotation = "0"
	}
	if c.BusyTimeout <= 0 {
		c.BusyTimeout = ssd1681.DefaultBusyTimeout
	}
	switch c.LogLevel {
	case "debug", "info", "error":
	default:
		c.LogLevel = "info"
	}
}

// LUTMode returns the parsed waveform. Call Normalize first.
func (c *Config) LUTMode() ssd1681.LUTMode {
	var m ssd1681.LUTMode
	_ = m.Set(c.Waveform)
	return m
}

// RotationValue returns the parsed rotation. Call Normalize first.
func (c *Config) RotationValue() image2bit.Rotation {
	var r image2bit.Rotation
	_ = r.Set(c.Rotation)
	return r
}

// Opts returns the device options described by the configuration.
func (c *Config) Opts() *ssd1681.Opts {
	return &ssd1681.Opts{
		BusyTimeout: c.BusyTimeout,
		Rotation:    c.RotationValue(),
	}
}

// Load loads configuration from the given YAML path.
//
// A missing file is created with the defaults and 0600 permissions.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			return cfg, Save(path, cfg)
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()
	return &cfg, nil
}

// Save writes cfg to path atomically, with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".ssd1681-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
