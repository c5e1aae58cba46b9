package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chris/journal/config"
	"github.com/chris/journal/internal/discord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	t.Setenv("DATABASE_PATH", filepath.Join(t.TempDir(), "journal.db"))
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("PROMPTS_FILE", "")
	t.Setenv("TIMEZONE", "Asia/Singapore")
}

func TestPromptsValidate(t *testing.T) {
	isolate(t)
	out, err := execute(t, "prompts", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "ok: ")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("self_awareness: []\nconnection: [x]\n"), 0600))
	_, err = execute(t, "prompts", "validate", bad)
	assert.Error(t, err)
}

func TestPromptsList(t *testing.T) {
	isolate(t)
	out, err := execute(t, "prompts", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Self-Awareness")
	assert.Contains(t, out, "Connections")
	assert.Contains(t, out, " 1. ")
}

func TestChatThenExport(t *testing.T) {
	isolate(t)
	cfg, err := config.FromEnv()
	require.NoError(t, err)

	var out bytes.Buffer
	a, err := newApp(cfg, &consoleSender{w: &out}, zap.NewNop())
	require.NoError(t, err)

	script := "/start\n/prompt\nIt was a calm week\n/schedule_day\n/schedule_day 4\nexit\n/help\n"
	err = chat(context.Background(), discord.NewHandler(a.companion, nil), "local", strings.NewReader(script), &out)
	require.NoError(t, err)
	require.NoError(t, a.Close())

	text := out.String()
	assert.Contains(t, text, "Welcome to your personal journaling companion!")
	assert.Contains(t, text, "Here's your reflection prompt")
	assert.Contains(t, text, "Your response has been saved")
	assert.Contains(t, text, "  6) Sunday")
	assert.Contains(t, text, "Day set to Friday")
	assert.NotContains(t, text, "Available Commands", "input after exit is ignored")

	exported, err := execute(t, "export", "local")
	require.NoError(t, err)
	assert.Contains(t, exported, "A: It was a calm week")

	asJSON, err := execute(t, "export", "local", "--json")
	require.NoError(t, err)
	assert.Contains(t, asJSON, `"user_id": "local"`)

	_, err = execute(t, "export", "nobody")
	assert.ErrorContains(t, err, "no journal for user nobody")
}

func TestRunRequiresToken(t *testing.T) {
	isolate(t)
	t.Setenv("DISCORD_BOT_TOKEN", "")
	_, err := execute(t, "run")
	assert.ErrorContains(t, err, "DISCORD_BOT_TOKEN")
}

func TestNewLogger(t *testing.T) {
	l, err := newLogger("warn", false)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zap.InfoLevel))

	l, err = newLogger("warn", true)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zap.DebugLevel))

	_, err = newLogger("chatty", false)
	assert.Error(t, err)
}
