package config

import (
	"github.com/Guliveer/twitch-chat-go/internal/classifier"
	"github.com/Guliveer/twitch-chat-go/internal/model"
)

// AccountConfig represents the full configuration for a single Twitch account.
// It is loaded from a YAML file and optionally overlaid with environment variables.
type AccountConfig struct {
	Username string `yaml:"-"`

	Enabled *bool `yaml:"enabled,omitempty"`

	Auth AuthConfig `yaml:"-"`

	Channels []string `yaml:"channels"`

	Classifier ClassifierConfig `yaml:"classifier"`

	// LogEvents lists the event kinds logged as notable events.
	LogEvents []string `yaml:"log_events"`

	Notifications NotificationsConfig `yaml:"notifications"`
}

// AuthConfig holds authentication-related settings.
type AuthConfig struct {
	// AuthToken is read from TWITCH_OAUTH_TOKEN_<USER>. Without it the
	// account connects anonymously and cannot send messages.
	AuthToken string
}

// ClassifierConfig tunes IRC line classification.
type ClassifierConfig struct {
	// RoomStateThreshold is the tag count a ROOMSTATE line must exceed to
	// be reported. Nil means the default.
	RoomStateThreshold *int `yaml:"room_state_threshold,omitempty"`
}

// NotificationsConfig holds all notification provider configurations.
type NotificationsConfig struct {
	Telegram *TelegramConfig `yaml:"telegram,omitempty"`
	Discord  *DiscordConfig  `yaml:"discord,omitempty"`
	Webhook  *WebhookConfig  `yaml:"webhook,omitempty"`
	Matrix   *MatrixConfig   `yaml:"matrix,omitempty"`
	Pushover *PushoverConfig `yaml:"pushover,omitempty"`
	Gotify   *GotifyConfig   `yaml:"gotify,omitempty"`
}

// TelegramConfig holds Telegram notification settings.
type TelegramConfig struct {
	Enabled             bool     `yaml:"enabled"`
	Token               string   `yaml:"token,omitempty"`
	ChatID              string   `yaml:"chat_id,omitempty"`
	Events              []string `yaml:"events"`
	DisableNotification bool     `yaml:"disable_notification"`
}

// DiscordConfig holds Discord notification settings.
type DiscordConfig struct {
	Enabled    bool     `yaml:"enabled"`
	WebhookURL string   `yaml:"webhook_url,omitempty"`
	Events     []string `yaml:"events"`
}

// WebhookConfig holds generic webhook notification settings.
type WebhookConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Endpoint string   `yaml:"endpoint,omitempty"`
	Method   string   `yaml:"method"`
	Events   []string `yaml:"events"`
}

// MatrixConfig holds Matrix notification settings.
type MatrixConfig struct {
	Enabled     bool     `yaml:"enabled"`
	Homeserver  string   `yaml:"homeserver,omitempty"`
	RoomID      string   `yaml:"room_id,omitempty"`
	AccessToken string   `yaml:"access_token,omitempty"`
	Events      []string `yaml:"events"`
}

// PushoverConfig holds Pushover notification settings.
type PushoverConfig struct {
	Enabled  bool     `yaml:"enabled"`
	UserKey  string   `yaml:"user_key,omitempty"`
	APIToken string   `yaml:"api_token,omitempty"`
	Events   []string `yaml:"events"`
}

// GotifyConfig holds Gotify notification settings.
type GotifyConfig struct {
	Enabled bool     `yaml:"enabled"`
	URL     string   `yaml:"url,omitempty"`
	Token   string   `yaml:"token,omitempty"`
	Events  []string `yaml:"events"`
}

// IsEnabled returns whether this account is enabled.
// If the Enabled field is not set (nil), it defaults to true.
func (ac *AccountConfig) IsEnabled() bool {
	if ac.Enabled == nil {
		return true
	}
	return *ac.Enabled
}

// ParsedLogEvents converts LogEvents to kinds, skipping unknown names.
func (ac *AccountConfig) ParsedLogEvents() []model.Kind {
	return model.ParseKinds(ac.LogEvents)
}

// ClassifierOptions returns the classifier options for this account.
func (ac *AccountConfig) ClassifierOptions() []classifier.Option {
	var opts []classifier.Option
	if ac.Classifier.RoomStateThreshold != nil {
		opts = append(opts, classifier.WithRoomStateThreshold(*ac.Classifier.RoomStateThreshold))
	}
	return opts
}
