package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(envFrom(map[string]string{
		"TELEGRAM_TOKEN": "123:abc",
		"API_BASE_URL":   "https://api.example.com/api",
	}))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 10*time.Second, cfg.APITimeout)
	assert.Equal(t, 5, cfg.TZOffsetHours)
	assert.Equal(t, "data/pending_surveys.json", cfg.SurveyStorePath)
	assert.Empty(t, cfg.SurveyStoreDSN)
	assert.Equal(t, "migrations", cfg.MigrationsPath)
	assert.Equal(t, time.Minute, cfg.DispatchInterval)
	assert.False(t, cfg.IsProduction())

	_, offset := time.Date(2025, 3, 10, 0, 0, 0, 0, cfg.Location()).Zone()
	assert.Equal(t, 5*60*60, offset)
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(envFrom(map[string]string{
		"TELEGRAM_TOKEN":    "123:abc",
		"API_BASE_URL":      "http://localhost:8000",
		"API_TOKEN":         "secret",
		"API_TIMEOUT":       "3s",
		"ENV":               "production",
		"TZ_OFFSET_HOURS":   "3",
		"SURVEY_STORE_DSN":  "postgres://bot@localhost/bot",
		"DISPATCH_INTERVAL": "30s",
	}))
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.APIToken)
	assert.Equal(t, 3*time.Second, cfg.APITimeout)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 3, cfg.TZOffsetHours)
	assert.Equal(t, "postgres://bot@localhost/bot", cfg.SurveyStoreDSN)
	assert.Equal(t, 30*time.Second, cfg.DispatchInterval)
}

func TestFromEnv_Invalid(t *testing.T) {
	base := map[string]string{
		"TELEGRAM_TOKEN": "123:abc",
		"API_BASE_URL":   "http://localhost:8000",
	}

	cases := map[string]map[string]string{
		"missing token":    {"TELEGRAM_TOKEN": ""},
		"missing api url":  {"API_BASE_URL": ""},
		"bad api url":      {"API_BASE_URL": "not a url"},
		"bad timeout":      {"API_TIMEOUT": "soon"},
		"zero interval":    {"DISPATCH_INTERVAL": "0s"},
		"bad environment":  {"ENV": "staging"},
		"bad offset":       {"TZ_OFFSET_HOURS": "five"},
		"offset too large": {"TZ_OFFSET_HOURS": "20"},
	}

	for name, override := range cases {
		t.Run(name, func(t *testing.T) {
			env := make(map[string]string, len(base))
			for k, v := range base {
				env[k] = v
			}
			for k, v := range override {
				env[k] = v
			}

			_, err := FromEnv(envFrom(env))
			assert.Error(t, err)
		})
	}
}
