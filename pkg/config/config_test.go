package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frescopa/demogen/pkg/generator"
	"github.com/frescopa/demogen/pkg/migration"
)

// isolate runs the test from an empty directory so no demogen.yaml or .env
// from the repository leaks in.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(Options{})
	require.NoError(t, err)
	assert.Equal(t, "data-sample", cfg.SeedDir)
	assert.Equal(t, "data-augmented", cfg.OutDir)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, "info", cfg.Log.Level)

	opts, err := cfg.GeneratorOptions()
	require.NoError(t, err)
	assert.Equal(t, generator.DefaultOptions(), opts)
}

func TestLoad_Precedence(t *testing.T) {
	dir := isolate(t)
	file := filepath.Join(dir, "demogen.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
seed: 1
out_dir: from-file
wishlist:
  mode: conversion
  conversion_rate: 0.25
abandoned:
  target: 500
`), 0o644))
	t.Setenv("DEMOGEN_SEED", "2")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("out-dir", "", "")
	flags.Uint64("seed", 0, "")
	require.NoError(t, flags.Parse([]string{"--out-dir", "from-flag"}))

	cfg, err := Load(Options{Flags: flags})
	require.NoError(t, err)
	assert.Equal(t, "from-flag", cfg.OutDir, "flag beats file")
	assert.Equal(t, uint64(2), cfg.Seed, "env beats file, unset flag does not count")
	assert.Equal(t, "conversion", cfg.Wishlist.Mode)
	assert.Equal(t, 0.25, cfg.Wishlist.ConversionRate)
	assert.Equal(t, 500, cfg.Abandoned.Target)
}

func TestLoad_EnvFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DEMOGEN_NOW=2025-06-30\n"), 0o644))
	t.Setenv("DEMOGEN_NOW", "")
	require.NoError(t, os.Unsetenv("DEMOGEN_NOW"))

	cfg, err := Load(Options{})
	require.NoError(t, err)
	assert.Equal(t, "2025-06-30", cfg.Now)

	opts, err := cfg.GeneratorOptions()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC), opts.Now)
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	dir := isolate(t)

	_, err := Load(Options{File: filepath.Join(dir, "nope.yaml")})
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"mode", map[string]string{"DEMOGEN_WISHLIST_MODE": "sometimes"}, "Mode"},
		{"fraction", map[string]string{"DEMOGEN_WISHLIST_FRACTION": "1.5"}, "Fraction"},
		{"date", map[string]string{"DEMOGEN_NOW": "15/01/2026"}, "Now"},
		{"level", map[string]string{"DEMOGEN_LOG_LEVEL": "loud"}, "Level"},
		{"target", map[string]string{"DEMOGEN_ABANDONED_TARGET": "-1"}, "Target"},
		{"lock id", map[string]string{"DEMOGEN_DATABASE_LOCK_ID": "0"}, "LockID"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(Options{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_LockID(t *testing.T) {
	isolate(t)

	cfg, err := Load(Options{})
	require.NoError(t, err)
	assert.Equal(t, migration.DefaultLockID, cfg.Database.LockID)

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int64("lock-id", migration.DefaultLockID, "")
	require.NoError(t, flags.Parse([]string{"--lock-id", "99"}))

	cfg, err = Load(Options{Flags: flags})
	require.NoError(t, err)
	assert.Equal(t, int64(99), cfg.Database.LockID)
}
