package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/lineage/pkg/pipeline"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSettingsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	v, err := loadSettings("")
	require.NoError(t, err)
	assert.Equal(t, defaultConcurrency, v.GetInt(keyConcurrency))
	assert.True(t, v.GetBool(keyCache))
	assert.False(t, v.IsSet(keySeed))
}

func TestLoadSettingsFromConfigDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	require.NoError(t, os.MkdirAll(filepath.Join(home, appName), 0o755))
	writeFile(t, filepath.Join(home, appName), "config.yaml", "seed: family\nconcurrency: 2\n")

	v, err := loadSettings("")
	require.NoError(t, err)
	assert.Equal(t, "family", v.GetString(keySeed))
	assert.Equal(t, 2, v.GetInt(keyConcurrency))
}

func TestLoadSettingsExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "settings.toml", "width = 1200\ntemperature = 0.9\n")

	v, err := loadSettings(path)
	require.NoError(t, err)
	assert.InDelta(t, 1200, v.GetFloat64(keyWidth), 1e-9)
	assert.InDelta(t, 0.9, v.GetFloat64(keyTemperature), 1e-9)

	_, err = loadSettings(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestSettingsPrecedence(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	path := writeFile(t, t.TempDir(), "settings.yaml", "seed: from-file\nwidth: 900\nheight: 700\n")
	t.Setenv("LINEAGE_WIDTH", "1000")
	t.Setenv("LINEAGE_STAGE_TIMEOUT", "2s")

	v, err := loadSettings(path)
	require.NoError(t, err)

	cmd := &cobra.Command{Use: "run"}
	addRunFlags(cmd)
	require.NoError(t, cmd.Flags().Parse([]string{"--seed", "from-flag"}))
	require.NoError(t, bindFlags(v, cmd, runFlagKeys...))

	cfg := pipeline.DefaultConfig()
	cfg.PrimaryIndividualID = "ego"
	applyOverrides(v, &cfg)

	assert.Equal(t, "from-flag", cfg.Seed, "flag beats file")
	assert.InDelta(t, 1000, cfg.CanvasWidth, 1e-9, "env beats file")
	assert.InDelta(t, 700, cfg.CanvasHeight, 1e-9, "file beats definition")
	assert.InDelta(t, pipeline.DefaultTemperature, cfg.Temperature, 1e-9, "unset keeps definition")
	assert.Equal(t, "ego", cfg.PrimaryIndividualID)
	assert.Equal(t, "2s", v.GetDuration(keyStageTimeout).String())
}
