// Package config handles loading, parsing, and validating YAML configuration
// files for the chat watcher. It supports per-account configuration with
// environment variable overrides for secrets, plus process-wide settings
// read from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
	"gopkg.in/yaml.v3"

	"github.com/Guliveer/twitch-chat-go/internal/classifier"
	"github.com/Guliveer/twitch-chat-go/internal/model"
)

// DefaultConfigDir is the default directory for account configuration files.
const DefaultConfigDir = "configs"

// ErrNoAccounts is returned when a config directory holds no account files.
var ErrNoAccounts = errors.New("no account config files found")

// channelName matches Twitch login names.
var channelName = regexp.MustCompile(`^[a-z0-9_]{1,25}$`)

// defaultLogEvents are logged when an account does not list log_events.
var defaultLogEvents = []string{
	string(model.KindCheer),
	string(model.KindSubscription),
	string(model.KindGiftSubscriptions),
	string(model.KindRaid),
	string(model.KindUserBan),
	string(model.KindUserTimeout),
	string(model.KindHostOn),
	string(model.KindPrivateMessage),
}

// Process holds process-wide settings read from the environment.
type Process struct {
	ConfigDir    string `env:"CONFIG_DIR" default:"configs"`
	Port         string `env:"PORT" default:"8080"`
	LogLevel     string `env:"LOG_LEVEL" default:"info"`
	LogDir       string `env:"LOG_DIR"`
	EventsBuffer int    `env:"EVENTS_BUFFER" default:"64"`
}

// LoadDotEnv loads variables from path into the environment when the file
// exists. Variables already set are not overridden.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// LoadProcess reads process-wide settings from the environment.
func LoadProcess() (*Process, error) {
	var p Process
	if err := env.Load(&p, nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}
	if p.EventsBuffer <= 0 {
		return nil, fmt.Errorf("EVENTS_BUFFER must be positive, got %d", p.EventsBuffer)
	}
	return &p, nil
}

// LoadAccountConfig loads a single account configuration from a YAML file,
// then overlays environment variables for secrets.
func LoadAccountConfig(path string) (*AccountConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var cfg AccountConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	filename := filepath.Base(path)
	ext := filepath.Ext(filename)
	cfg.Username = strings.ToLower(strings.TrimSuffix(filename, ext))

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// LoadAllAccountConfigs loads all .yaml/.yml files from the given directory.
// Each file is expected to contain a single AccountConfig.
// Only files ending in .yaml or .yml are loaded; everything else (including
// .yaml.example) is ignored by the extension check.
// The username for each account is derived from the config filename.
func LoadAllAccountConfigs(dir string) ([]*AccountConfig, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading config directory %s: %w", dir, err)
	}

	var configs []*AccountConfig
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := filepath.Ext(name)
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		cfg, err := LoadAccountConfig(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", name, err)
		}

		configs = append(configs, cfg)
	}

	if len(configs) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoAccounts, dir)
	}

	return configs, nil
}

func applyDefaults(cfg *AccountConfig) {
	if cfg.Classifier.RoomStateThreshold == nil {
		threshold := classifier.DefaultRoomStateThreshold
		cfg.Classifier.RoomStateThreshold = &threshold
	}

	if len(cfg.LogEvents) == 0 {
		cfg.LogEvents = append([]string(nil), defaultLogEvents...)
	}

	for i, ch := range cfg.Channels {
		cfg.Channels[i] = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ch), "#"))
	}

	if cfg.Notifications.Webhook != nil && cfg.Notifications.Webhook.Method == "" {
		cfg.Notifications.Webhook.Method = "POST"
	}
}

// getEnv looks up an environment variable with a per-account suffix.
func getEnv(key, username string) string {
	return os.Getenv(key + "_" + strings.ToUpper(username))
}

// applyEnvOverrides overlays environment variables for secrets.
// Every variable requires the username suffix: KEY_<UPPERCASE_USERNAME>
func applyEnvOverrides(cfg *AccountConfig) {
	u := cfg.Username

	if v := getEnv("TWITCH_OAUTH_TOKEN", u); v != "" {
		cfg.Auth.AuthToken = v
	}

	if cfg.Notifications.Telegram != nil {
		if v := getEnv("TELEGRAM_TOKEN", u); v != "" {
			cfg.Notifications.Telegram.Token = v
		}
		if v := getEnv("TELEGRAM_CHAT_ID", u); v != "" {
			cfg.Notifications.Telegram.ChatID = v
		}
	}

	if cfg.Notifications.Discord != nil {
		if v := getEnv("DISCORD_WEBHOOK", u); v != "" {
			cfg.Notifications.Discord.WebhookURL = v
		}
	}

	if cfg.Notifications.Webhook != nil {
		if v := getEnv("WEBHOOK_URL", u); v != "" {
			cfg.Notifications.Webhook.Endpoint = v
		}
	}

	if cfg.Notifications.Matrix != nil {
		if v := getEnv("MATRIX_HOMESERVER", u); v != "" {
			cfg.Notifications.Matrix.Homeserver = v
		}
		if v := getEnv("MATRIX_ROOM_ID", u); v != "" {
			cfg.Notifications.Matrix.RoomID = v
		}
		if v := getEnv("MATRIX_ACCESS_TOKEN", u); v != "" {
			cfg.Notifications.Matrix.AccessToken = v
		}
	}

	if cfg.Notifications.Pushover != nil {
		if v := getEnv("PUSHOVER_TOKEN", u); v != "" {
			cfg.Notifications.Pushover.APIToken = v
		}
		if v := getEnv("PUSHOVER_USER_KEY", u); v != "" {
			cfg.Notifications.Pushover.UserKey = v
		}
	}

	if cfg.Notifications.Gotify != nil {
		if v := getEnv("GOTIFY_URL", u); v != "" {
			cfg.Notifications.Gotify.URL = v
		}
		if v := getEnv("GOTIFY_TOKEN", u); v != "" {
			cfg.Notifications.Gotify.Token = v
		}
	}
}

// Validate checks the configuration for common errors.
func Validate(cfg *AccountConfig) error {
	if cfg.Username == "" {
		return fmt.Errorf("username is required")
	}

	if len(cfg.Channels) == 0 {
		return fmt.Errorf("account %s: at least one channel must be configured", cfg.Username)
	}

	for i, ch := range cfg.Channels {
		if !channelName.MatchString(ch) {
			return fmt.Errorf("account %s: channel at index %d has invalid name %q", cfg.Username, i, ch)
		}
	}

	if t := cfg.Classifier.RoomStateThreshold; t != nil && *t < 0 {
		return fmt.Errorf("account %s: classifier.room_state_threshold must not be negative", cfg.Username)
	}

	for _, name := range cfg.LogEvents {
		if model.ParseKind(name) == "" {
			return fmt.Errorf("account %s: unknown event kind %q in log_events", cfg.Username, name)
		}
	}

	u := strings.ToUpper(cfg.Username)
	n := cfg.Notifications

	if n.Telegram != nil && n.Telegram.Enabled {
		if n.Telegram.Token == "" || n.Telegram.ChatID == "" {
			return fmt.Errorf("account %s: telegram enabled but token or chat_id not set (use env vars TELEGRAM_TOKEN_%s and TELEGRAM_CHAT_ID_%s)", cfg.Username, u, u)
		}
	}

	if n.Discord != nil && n.Discord.Enabled {
		if n.Discord.WebhookURL == "" {
			return fmt.Errorf("account %s: discord enabled but webhook_url not set (use env var DISCORD_WEBHOOK_%s)", cfg.Username, u)
		}
	}

	if n.Webhook != nil && n.Webhook.Enabled {
		if n.Webhook.Endpoint == "" {
			return fmt.Errorf("account %s: webhook enabled but endpoint not set (use env var WEBHOOK_URL_%s)", cfg.Username, u)
		}
	}

	if n.Matrix != nil && n.Matrix.Enabled {
		if n.Matrix.Homeserver == "" || n.Matrix.RoomID == "" || n.Matrix.AccessToken == "" {
			return fmt.Errorf("account %s: matrix enabled but homeserver, room_id or access_token not set", cfg.Username)
		}
	}

	if n.Pushover != nil && n.Pushover.Enabled {
		if n.Pushover.APIToken == "" || n.Pushover.UserKey == "" {
			return fmt.Errorf("account %s: pushover enabled but api_token or user_key not set", cfg.Username)
		}
	}

	if n.Gotify != nil && n.Gotify.Enabled {
		if n.Gotify.URL == "" || n.Gotify.Token == "" {
			return fmt.Errorf("account %s: gotify enabled but url or token not set", cfg.Username)
		}
	}

	return nil
}
