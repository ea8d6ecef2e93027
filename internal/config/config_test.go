package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"followme/internal/tuyair"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "followme.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 60*time.Second, cfg.Interval())
	assert.Equal(t, DefaultIRBlasterIEEE, cfg.IRBlasterIEEE)
	assert.Equal(t, 2, cfg.CompressionLevel)
	assert.Equal(t, DefaultRetention, cfg.Retention)

	e, err := cfg.Encoder()
	require.NoError(t, err)
	assert.Equal(t, tuyair.LevelGreedyBest, e.Level())
	assert.Equal(t, tuyair.RoundHalfEven, e.Rounding())
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
scan_interval: 30
ir_blaster_ieee: "a4:c1:38:00:00:12:34:56"
compression_level: 3
rounding: half_up
server:
  port: 9090
home_assistant:
  url: http://homeassistant.local:8123
  token: secret
  timeout: 5s
retention: 168h
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.ScanInterval)
	assert.Equal(t, "a4:c1:38:00:00:12:34:56", cfg.IRBlasterIEEE)
	assert.Equal(t, DefaultTemperatureEntityID, cfg.TemperatureEntityID)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "http://homeassistant.local:8123", cfg.HomeAssistant.URL)
	assert.Equal(t, 5*time.Second, cfg.HomeAssistant.Timeout)
	assert.Equal(t, 7*24*time.Hour, cfg.Retention)

	e, err := cfg.Encoder()
	require.NoError(t, err)
	assert.Equal(t, tuyair.LevelOptimal, e.Level())
	assert.Equal(t, tuyair.RoundHalfUp, e.Rounding())
}

func TestLoadInvalid(t *testing.T) {
	cases := map[string]string{
		"interval too short": "scan_interval: 2\n",
		"interval too long":  "scan_interval: 600\n",
		"bad level":          "compression_level: 4\n",
		"bad rounding":       "rounding: banker\n",
		"bad url":            "home_assistant:\n  url: not a url\n",
		"bad yaml":           "scan_interval: [\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
