package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/planora/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, k := range []string{
		"PLANORA_CONFIG", "PLANORA_DB", "PLANORA_USER", "PLANORA_DRAFT_TTL",
		"PLANORA_PURGE_SCHEDULE", "PLANORA_LOG_CALLS",
		"PLANORA_LLM_ENABLED", "PLANORA_LLM_PROVIDER", "PLANORA_LLM_MODEL", "PLANORA_LLM_ENDPOINT",
	} {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	isolateEnv(t)
	home := os.Getenv("HOME")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".planora", "planora.db"), cfg.DBPath)
	assert.Equal(t, DefaultUserID, cfg.UserID)
	assert.Equal(t, DefaultDraftTTL, cfg.DraftTTL)
	assert.Equal(t, DefaultPurgeSchedule, cfg.PurgeSchedule)
	assert.False(t, cfg.LLM.Enabled)
	assert.Equal(t, llm.ProviderOllama, cfg.LLM.Provider)
}

func TestLoad_YAMLFile(t *testing.T) {
	isolateEnv(t)
	path := writeFile(t, `
db_path: /tmp/plans.db
user_id: alex
draft_ttl: 36h
purge_schedule: "*/15 * * * *"
log_calls: true
llm:
  enabled: true
  provider: gemini
  model: gemini-2.5-flash
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/plans.db", cfg.DBPath)
	assert.Equal(t, "alex", cfg.UserID)
	assert.Equal(t, 36*time.Hour, cfg.DraftTTL)
	assert.Equal(t, "*/15 * * * *", cfg.PurgeSchedule)
	assert.True(t, cfg.LogCalls)
	assert.True(t, cfg.LLM.Enabled)
	assert.Equal(t, llm.ProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.LLM.Model)
	assert.Equal(t, "http://localhost:11434", cfg.LLM.Endpoint, "unset keys keep their defaults")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolateEnv(t)
	path := writeFile(t, "user_id: from-file\ndraft_ttl: 2h\n")
	t.Setenv("PLANORA_USER", "from-env")
	t.Setenv("PLANORA_DRAFT_TTL", "90m")
	t.Setenv("PLANORA_DB", "/var/lib/planora.db")
	t.Setenv("PLANORA_LOG_CALLS", "true")
	t.Setenv("PLANORA_LLM_ENABLED", "true")
	t.Setenv("PLANORA_LLM_MODEL", "qwen2.5")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.UserID)
	assert.Equal(t, 90*time.Minute, cfg.DraftTTL)
	assert.Equal(t, "/var/lib/planora.db", cfg.DBPath)
	assert.True(t, cfg.LogCalls)
	assert.True(t, cfg.LLM.Enabled)
	assert.Equal(t, "qwen2.5", cfg.LLM.Model)
}

func TestLoad_ConfigPathFromEnv(t *testing.T) {
	isolateEnv(t)
	t.Setenv("PLANORA_CONFIG", writeFile(t, "user_id: pointed\n"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "pointed", cfg.UserID)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		file string
		env  map[string]string
	}{
		{name: "malformed yaml", file: "user_id: [unclosed"},
		{name: "bad ttl env", env: map[string]string{"PLANORA_DRAFT_TTL": "soon"}},
		{name: "bad log flag", env: map[string]string{"PLANORA_LOG_CALLS": "maybe"}},
		{name: "negative ttl", file: "draft_ttl: -1h\n"},
		{name: "bad schedule", file: "purge_schedule: every now and then\n"},
		{name: "unknown provider", file: "llm:\n  provider: openai\n"},
		{name: "empty user", file: "user_id: \"  \"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := filepath.Join(t.TempDir(), "absent.yaml")
			if tt.file != "" {
				path = writeFile(t, tt.file)
			}
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}
