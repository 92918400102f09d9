// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, "printingPlane", cfg.SurfaceName)
	assert.Equal(t, float32(300), cfg.PlaneSize)
	assert.Equal(t, float32(10), cfg.PlaneThickness)
	assert.Equal(t, 8, cfg.MaxConcurrentRequests)
	assert.Equal(t, []string{"main", "preview"}, cfg.Views)
	assert.NoError(t, cfg.Validate())
}

func TestOpenFS(t *testing.T) {
	fsys := fstest.MapFS{
		"xyzsync.toml": {Data: []byte(`
plane_size = 200
max_concurrent_requests = 2
views = ["main", "left", "right"]
models = ["engine"]
log_level = "debug"
`)},
		"bad.toml":     {Data: []byte("plane_size = -1\n")},
		"unknown.toml": {Data: []byte("color = \"red\"\n")},
		"level.toml":   {Data: []byte("log_level = \"loud\"\n")},
	}
	cfg, err := OpenFS(fsys, DefaultFile)
	require.NoError(t, err)
	assert.Equal(t, float32(200), cfg.PlaneSize)
	assert.Equal(t, float32(10), cfg.PlaneThickness)
	assert.Equal(t, "printingPlane", cfg.SurfaceName)
	assert.Equal(t, 2, cfg.MaxConcurrentRequests)
	assert.Equal(t, []string{"main", "left", "right"}, cfg.Views)
	assert.Equal(t, []string{"engine"}, cfg.Models)
	assert.Equal(t, "debug", cfg.LogLevel)

	_, err = OpenFS(fsys, "bad.toml")
	assert.ErrorContains(t, err, "plane_size")
	_, err = OpenFS(fsys, "unknown.toml")
	assert.Error(t, err)
	_, err = OpenFS(fsys, "level.toml")
	assert.ErrorContains(t, err, "loud")
	_, err = OpenFS(fsys, "missing.toml")
	assert.Error(t, err)
}

func TestOpenSave(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, DefaultFile)
	cfg := Defaults()
	cfg.Assets = "models"
	cfg.Models = []string{"engine"}
	require.NoError(t, cfg.Save(file))

	require.NoError(t, os.Mkdir(filepath.Join(dir, "models"), 0777))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "models", "engine.yaml"), []byte("name: engine\n"), 0666))

	got, err := Open(file)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "models"), got.Assets)
	assert.Equal(t, cfg.Models, got.Models)

	ok, err := got.HasModel("engine")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = got.HasModel("cap.yaml")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOpenHomeAssets(t *testing.T) {
	home, err := homedir.Dir()
	require.NoError(t, err)
	file := filepath.Join(t.TempDir(), DefaultFile)
	require.NoError(t, os.WriteFile(file, []byte("assets = \"~/models\"\n"), 0666))
	cfg, err := Open(file)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "models"), cfg.Assets)
}
