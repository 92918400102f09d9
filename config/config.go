// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config contains the configuration of a sync session:
// the build surface, replication limits, the models to load and
// the logging level. It is read from a TOML file.
package config

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"cogentcore.org/xyzsync/base/fsx"
	"cogentcore.org/xyzsync/base/logx"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
)

// DefaultFile is the name of the config file looked for
// when none is given.
const DefaultFile = "xyzsync.toml"

// Config is the configuration of a sync session.
type Config struct {

	// SurfaceName is the name of the build surface node
	// that instances are placed on.
	SurfaceName string `toml:"surface_name"`

	// PlaneSize is the width and depth of the build plate.
	PlaneSize float32 `toml:"plane_size"`

	// PlaneThickness is the height of the build plate below Z = 0.
	PlaneThickness float32 `toml:"plane_thickness"`

	// MaxConcurrentRequests limits the number of instance creation
	// requests of one placement in flight at once; zero means no limit.
	MaxConcurrentRequests int `toml:"max_concurrent_requests"`

	// Views are the names of the views: the first is the primary
	// view, and the rest are attached to it.
	Views []string `toml:"views"`

	// Models are the model sources loaded into every view at startup.
	Models []string `toml:"models"`

	// Assets is the directory model sources are read from.
	// Relative paths are relative to the config file, and
	// a leading ~ is the home directory.
	Assets string `toml:"assets"`

	// LogLevel is the minimum level of log messages:
	// debug, info, warn or error.
	LogLevel string `toml:"log_level"`
}

// Defaults returns the default configuration.
func Defaults() *Config {
	return &Config{
		SurfaceName:           "printingPlane",
		PlaneSize:             300,
		PlaneThickness:        10,
		MaxConcurrentRequests: 8,
		Views:                 []string{"main", "preview"},
		Assets:                ".",
		LogLevel:              "info",
	}
}

// Open returns the default configuration overlaid with the given
// TOML file. Unknown keys are an error.
func Open(file string) (*Config, error) {
	fsys, name, err := fsx.DirFS(file)
	if err != nil {
		return nil, fmt.Errorf("config.Open: %w", err)
	}
	cfg, err := OpenFS(fsys, name)
	if err != nil {
		return nil, err
	}
	cfg.Assets, err = homedir.Expand(cfg.Assets)
	if err != nil {
		return nil, fmt.Errorf("config.Open %q: %w", file, err)
	}
	if !filepath.IsAbs(cfg.Assets) {
		cfg.Assets = filepath.Join(filepath.Dir(file), cfg.Assets)
	}
	return cfg, nil
}

// OpenFS is like [Open], reading the file from the given filesystem.
// Relative asset directories are left as they are.
func OpenFS(fsys fs.FS, file string) (*Config, error) {
	f, err := fsys.Open(file)
	if err != nil {
		return nil, fmt.Errorf("config.Open: %w", err)
	}
	defer f.Close()
	cfg := Defaults()
	dec := toml.NewDecoder(f).DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config.Open %q: %w", file, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config.Open %q: %w", file, err)
	}
	return cfg, nil
}

// Save writes the configuration to the given file as TOML.
func (cfg *Config) Save(file string) error {
	b, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(file, b, 0666)
}

// Validate returns an error if the configuration can not be used.
func (cfg *Config) Validate() error {
	switch {
	case cfg.SurfaceName == "":
		return fmt.Errorf("surface_name is empty")
	case cfg.PlaneSize <= 0:
		return fmt.Errorf("plane_size must be positive, not %g", cfg.PlaneSize)
	case cfg.PlaneThickness < 0:
		return fmt.Errorf("plane_thickness must not be negative, not %g", cfg.PlaneThickness)
	case cfg.MaxConcurrentRequests < 0:
		return fmt.Errorf("max_concurrent_requests must not be negative, not %d", cfg.MaxConcurrentRequests)
	case len(cfg.Views) == 0:
		return fmt.Errorf("no views")
	}
	if _, err := logx.ParseLevel(cfg.LogLevel); err != nil {
		return err
	}
	return nil
}

// AssetsFS returns the filesystem of the asset directory.
func (cfg *Config) AssetsFS() fs.FS {
	return os.DirFS(cfg.Assets)
}

// HasModel returns whether the given model source exists
// in the asset directory.
func (cfg *Config) HasModel(source string) (bool, error) {
	if filepath.Ext(source) == "" {
		source += ".yaml"
	}
	return fsx.FileExistsFS(cfg.AssetsFS(), source)
}
