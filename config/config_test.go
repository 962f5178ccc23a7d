// file: config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(envOf(nil))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "http://localhost:8080", cfg.ApplicationURL)
	assert.Empty(t, cfg.APIURL)
	assert.Equal(t, time.Duration(0), cfg.SignupCutoffOffset)
	assert.Equal(t, 10*time.Second, cfg.APITimeout)
	assert.Equal(t, 7, cfg.BusinessBeginsHour)
	assert.Equal(t, 22, cfg.BusinessEndsHour)
	assert.Equal(t, 768, cfg.DayViewMaxWidth)
	assert.Equal(t, time.Local, cfg.Location)
	assert.False(t, cfg.MetricsEnabled)
	assert.False(t, cfg.IsProduction())
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{
		"API_URL":              "https://api.example.com/",
		"SIGNUP_CUTOFF_OFFSET": "10h",
		"TIMEZONE":             "UTC",
		"METRICS_ENABLED":      "true",
		"ENVIRONMENT":          "production",
		"DAY_VIEW_MAX_WIDTH":   "640",
	}))
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.APIURL, "trailing slash should be trimmed")
	assert.Equal(t, 10*time.Hour, cfg.SignupCutoffOffset)
	assert.Equal(t, "UTC", cfg.Location.String())
	assert.True(t, cfg.MetricsEnabled)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 640, cfg.DayViewMaxWidth)
}

func TestFromEnv_InvalidValues(t *testing.T) {
	cases := map[string]map[string]string{
		"bad duration":       {"SIGNUP_CUTOFF_OFFSET": "ten hours"},
		"negative offset":    {"SIGNUP_CUTOFF_OFFSET": "-1h"},
		"bad timezone":       {"TIMEZONE": "Mars/Olympus"},
		"bad int":            {"BUSINESS_BEGINS_HOUR": "seven"},
		"inverted hours":     {"BUSINESS_BEGINS_HOUR": "22", "BUSINESS_ENDS_HOUR": "7"},
		"bad metrics toggle": {"METRICS_ENABLED": "maybe"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := FromEnv(envOf(env))
			assert.Error(t, err)
		})
	}
}
