package config

import (
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Display{Width: 320, Height: 240, PanelWidth: 80, CellSize: 30}, cfg.Display)
	assert.Equal(t, float64(3), cfg.Countdown)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "settings.yaml", cfg.SettingsFile)

	cfg, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Display.CellSize)
}

func TestFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gridbot.yaml")
	body := `
display:
  width: 480
  cellSize: 40
countdown: -2
routeFile: routes/demo.route
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	os.Setenv("GRIDBOT_ADDR", ":9999")
	defer os.Unsetenv("GRIDBOT_ADDR")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 480, cfg.Display.Width)
	assert.Equal(t, 240, cfg.Display.Height)
	assert.Equal(t, 40, cfg.Display.CellSize)
	assert.Equal(t, float64(0), cfg.Countdown)
	assert.Equal(t, "routes/demo.route", cfg.RouteFile)
	assert.Equal(t, ":9999", cfg.Addr)
}

func TestBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gridbot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("display: [\n"), 0644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestSetupLogging(t *testing.T) {
	defer log.SetLevel(log.GetLevel())
	cfg := &Config{LogLevel: "debug"}
	cfg.SetupLogging()
	assert.Equal(t, log.DebugLevel, log.GetLevel())

	cfg.LogLevel = "loud"
	cfg.SetupLogging()
	assert.Equal(t, log.DebugLevel, log.GetLevel())
}
