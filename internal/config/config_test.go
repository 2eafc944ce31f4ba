package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guliveer/twitch-chat-go/internal/model"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadAccountConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "MyBot.yaml", `
enabled: false
channels: ["#Forsen", " xqc "]
classifier:
  room_state_threshold: 0
log_events: [raid, CHAT_MENTION]
notifications:
  discord:
    enabled: true
    events: [RAID]
`)
	t.Setenv("TWITCH_OAUTH_TOKEN_MYBOT", "secret")
	t.Setenv("DISCORD_WEBHOOK_MYBOT", "https://discord.example/hook")

	cfg, err := LoadAccountConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "mybot", cfg.Username)
	assert.False(t, cfg.IsEnabled())
	assert.Equal(t, []string{"forsen", "xqc"}, cfg.Channels)
	require.NotNil(t, cfg.Classifier.RoomStateThreshold)
	assert.Equal(t, 0, *cfg.Classifier.RoomStateThreshold)
	assert.Len(t, cfg.ClassifierOptions(), 1)
	assert.Equal(t, []model.Kind{model.KindRaid, model.KindChatMention}, cfg.ParsedLogEvents())
	assert.Equal(t, "secret", cfg.Auth.AuthToken)
	assert.Equal(t, "https://discord.example/hook", cfg.Notifications.Discord.WebhookURL)
	require.NoError(t, Validate(cfg))
}

func TestLoadAccountConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bot.yml", "channels: [forsen]\nnotifications:\n  webhook:\n    enabled: false\n")

	cfg, err := LoadAccountConfig(path)
	require.NoError(t, err)

	assert.True(t, cfg.IsEnabled())
	require.NotNil(t, cfg.Classifier.RoomStateThreshold)
	assert.Equal(t, 2, *cfg.Classifier.RoomStateThreshold)
	assert.Contains(t, cfg.ParsedLogEvents(), model.KindRaid)
	assert.Equal(t, "POST", cfg.Notifications.Webhook.Method)
	assert.Empty(t, cfg.Auth.AuthToken)
}

func TestLoadAccountConfigErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadAccountConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := writeFile(t, dir, "bad.yaml", "channels: [unterminated\n")
	_, err = LoadAccountConfig(bad)
	assert.Error(t, err)
}

func TestLoadAllAccountConfigs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "alpha.yaml", "channels: [a]\n")
	writeFile(t, dir, "beta.yml", "channels: [b]\n")
	writeFile(t, dir, "gamma.yaml.example", "channels: [c]\n")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.yaml"), 0o755))

	configs, err := LoadAllAccountConfigs(dir)
	require.NoError(t, err)
	require.Len(t, configs, 2)
	assert.Equal(t, "alpha", configs[0].Username)
	assert.Equal(t, "beta", configs[1].Username)
}

func TestLoadAllAccountConfigsEmpty(t *testing.T) {
	_, err := LoadAllAccountConfigs(t.TempDir())
	assert.ErrorIs(t, err, ErrNoAccounts)
}

func TestValidate(t *testing.T) {
	negative := -1

	tests := []struct {
		name    string
		cfg     AccountConfig
		wantErr bool
	}{
		{"valid", AccountConfig{Username: "bot", Channels: []string{"forsen"}}, false},
		{"no username", AccountConfig{Channels: []string{"forsen"}}, true},
		{"no channels", AccountConfig{Username: "bot"}, true},
		{"bad channel", AccountConfig{Username: "bot", Channels: []string{"for sen"}}, true},
		{"negative threshold", AccountConfig{
			Username:   "bot",
			Channels:   []string{"forsen"},
			Classifier: ClassifierConfig{RoomStateThreshold: &negative},
		}, true},
		{"unknown log event", AccountConfig{Username: "bot", Channels: []string{"forsen"}, LogEvents: []string{"NOPE"}}, true},
		{"telegram without secrets", AccountConfig{
			Username:      "bot",
			Channels:      []string{"forsen"},
			Notifications: NotificationsConfig{Telegram: &TelegramConfig{Enabled: true}},
		}, true},
		{"disabled discord without url", AccountConfig{
			Username:      "bot",
			Channels:      []string{"forsen"},
			Notifications: NotificationsConfig{Discord: &DiscordConfig{}},
		}, false},
		{"gotify without token", AccountConfig{
			Username:      "bot",
			Channels:      []string{"forsen"},
			Notifications: NotificationsConfig{Gotify: &GotifyConfig{Enabled: true, URL: "http://g"}},
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadProcess(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")

	p, err := LoadProcess()
	require.NoError(t, err)
	assert.Equal(t, "9090", p.Port)
	assert.Equal(t, "debug", p.LogLevel)
	assert.Equal(t, DefaultConfigDir, p.ConfigDir)
	assert.Equal(t, 64, p.EventsBuffer)
}

func TestLoadProcessRejectsBadBuffer(t *testing.T) {
	t.Setenv("EVENTS_BUFFER", "0")
	_, err := LoadProcess()
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))

	path := writeFile(t, dir, ".env", "TWITCH_OAUTH_TOKEN_DOTENVBOT=fromfile\n")
	t.Setenv("TWITCH_OAUTH_TOKEN_DOTENVBOT", "")
	require.NoError(t, os.Unsetenv("TWITCH_OAUTH_TOKEN_DOTENVBOT"))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "fromfile", os.Getenv("TWITCH_OAUTH_TOKEN_DOTENVBOT"))
}
