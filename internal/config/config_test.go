package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T, vars map[string]string) {
	t.Helper()
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

func TestLoad(t *testing.T) {
	t.Run("defaults apply without file or env", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, "/nonexistent")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, "data", cfg.Input.Path)
		assert.Equal(t, "out", cfg.Output.Path)
		assert.Equal(t, "us-east-1", cfg.AWS.Region)
		assert.Equal(t, 0.0, cfg.ETL.JoinEpsilon)
		assert.Equal(t, "info", cfg.Logging.Level)
		assert.Equal(t, "json", cfg.Logging.Format)
	})

	t.Run("environment overrides defaults", func(t *testing.T) {
		setEnv(t, map[string]string{
			ConfigPathEnvVar: "/nonexistent",
			"INPUT_PATH":     "s3://udacity-dend",
			"OUTPUT_PATH":    "s3://my-lake/dend",
			"JOIN_EPSILON":   "0.01",
			"LOG_LEVEL":      "debug",
		})

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, "s3://udacity-dend", cfg.Input.Path)
		assert.Equal(t, "s3://my-lake/dend", cfg.Output.Path)
		assert.Equal(t, 0.01, cfg.ETL.JoinEpsilon)
		assert.Equal(t, "debug", cfg.Logging.Level)
	})

	t.Run("config file overrides defaults", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(
			"input:\n  path: /srv/lake/in\noutput:\n  path: /srv/lake/out\netl:\n  join_epsilon: 0.5\n"), 0o644))
		t.Setenv(ConfigPathEnvVar, path)

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, "/srv/lake/in", cfg.Input.Path)
		assert.Equal(t, "/srv/lake/out", cfg.Output.Path)
		assert.Equal(t, 0.5, cfg.ETL.JoinEpsilon)
	})

	t.Run("environment beats config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("input:\n  path: /from/file\n"), 0o644))
		setEnv(t, map[string]string{
			ConfigPathEnvVar: path,
			"INPUT_PATH":     "/from/env",
		})

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, "/from/env", cfg.Input.Path)
	})

	t.Run("invalid log format fails validation", func(t *testing.T) {
		setEnv(t, map[string]string{
			ConfigPathEnvVar: "/nonexistent",
			"LOG_FORMAT":     "xml",
		})

		_, err := Load()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "validation")
	})

	t.Run("negative join epsilon fails validation", func(t *testing.T) {
		setEnv(t, map[string]string{
			ConfigPathEnvVar: "/nonexistent",
			"JOIN_EPSILON":   "-1",
		})

		_, err := Load()

		assert.Error(t, err)
	})

	t.Run("unmapped environment variables are ignored", func(t *testing.T) {
		setEnv(t, map[string]string{
			ConfigPathEnvVar: "/nonexistent",
			"INPUT":          "noise",
			"PATH_INPUT":     "noise",
		})

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, "data", cfg.Input.Path)
	})
}
