package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsAndFile(t *testing.T) {
	path := writeConfig(t, `
auth:
  jwt_secret: "0123456789abcdef-secret"
planner:
  max_slots_per_day: 6
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, time.Minute, cfg.Server.RateLimit.Window)
	assert.Equal(t, 30, cfg.Planner.SlotStepMinutes)
	assert.Equal(t, 6, cfg.Planner.MaxSlotsPerDay)
	assert.Equal(t, 5, cfg.Planner.AvailableLimit)
	assert.Equal(t, 2, cfg.Planner.UnavailableLimit)
	assert.Equal(t, 8, cfg.Planner.WeeklyCapacity)
	assert.Equal(t, 200, cfg.Database.SlowQueryMs)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
auth:
  jwt_secret: "0123456789abcdef-secret"
`)
	t.Setenv("OPTIMUS_SERVER_PORT", "9100")
	t.Setenv("OPTIMUS_PLANNER_WEEKLY_CAPACITY", "5")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Planner.WeeklyCapacity)
}

func TestLoad_RejectsShortSecret(t *testing.T) {
	path := writeConfig(t, `
auth:
  jwt_secret: "short"
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate_PlannerBounds(t *testing.T) {
	valid := Config{
		Server:  ServerConfig{Port: 8080, Timezone: "UTC"},
		Auth:    AuthConfig{JWTSecret: "0123456789abcdef"},
		Planner: PlannerConfig{SlotStepMinutes: 30, MaxSlotsPerDay: 10, AvailableLimit: 5, UnavailableLimit: 2, WeeklyCapacity: 8},
	}
	require.NoError(t, valid.Validate())

	bad := valid
	bad.Planner.MaxSlotsPerDay = 0
	assert.Error(t, bad.Validate())

	bad = valid
	bad.Planner.UnavailableLimit = -1
	assert.Error(t, bad.Validate())

	bad = valid
	bad.Server.Timezone = "Mars/Olympus"
	assert.Error(t, bad.Validate())
}
