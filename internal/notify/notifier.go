// Package notify dispatches chat event notifications to multiple providers
// (Telegram, Discord, Webhook, Matrix, Pushover, Gotify), filtered by
// event kind.
package notify

import (
	"context"
	"net/http"
	"time"

	"github.com/Guliveer/twitch-chat-go/internal/config"
	"github.com/Guliveer/twitch-chat-go/internal/logger"
	"github.com/Guliveer/twitch-chat-go/internal/model"
	"github.com/Guliveer/twitch-chat-go/internal/workerpool"
)

const (
	// defaultHTTPTimeout is the timeout for notification HTTP requests.
	defaultHTTPTimeout = 5 * time.Second
	// maxConcurrentSends bounds provider fan-out per notification.
	maxConcurrentSends = 3
)

// Notifier is the interface that all notification providers must implement.
type Notifier interface {
	Send(ctx context.Context, kind model.Kind, title, message string) error
	Name() string
	IsEnabled() bool
	ShouldNotify(kind model.Kind) bool
}

// Dispatcher manages multiple notifiers and dispatches notifications to all
// enabled notifiers that match the event kind.
type Dispatcher struct {
	title     string
	notifiers []Notifier
	log       *logger.Logger
}

// NewDispatcher creates a Dispatcher from the notification configuration.
// Notifications are titled with the account name.
func NewDispatcher(account string, cfg config.NotificationsConfig, log *logger.Logger) *Dispatcher {
	d := &Dispatcher{title: "Twitch Chat · " + account, log: log}

	httpClient := &http.Client{
		Timeout: defaultHTTPTimeout,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 2,
			IdleConnTimeout:     30 * time.Second,
		},
	}

	if cfg.Telegram != nil && cfg.Telegram.Enabled {
		d.notifiers = append(d.notifiers, &Telegram{
			baseNotifier:        baseNotifier{name: "Telegram", enabled: true, kinds: model.ParseKinds(cfg.Telegram.Events)},
			apiBase:             telegramAPIBase,
			token:               cfg.Telegram.Token,
			chatID:              cfg.Telegram.ChatID,
			disableNotification: cfg.Telegram.DisableNotification,
			httpClient:          httpClient,
		})
	}

	if cfg.Discord != nil && cfg.Discord.Enabled {
		d.notifiers = append(d.notifiers, &Discord{
			baseNotifier: baseNotifier{name: "Discord", enabled: true, kinds: model.ParseKinds(cfg.Discord.Events)},
			webhookURL:   cfg.Discord.WebhookURL,
			httpClient:   httpClient,
		})
	}

	if cfg.Webhook != nil && cfg.Webhook.Enabled {
		method := cfg.Webhook.Method
		if method == "" {
			method = http.MethodPost
		}
		d.notifiers = append(d.notifiers, &Webhook{
			baseNotifier: baseNotifier{name: "Webhook", enabled: true, kinds: model.ParseKinds(cfg.Webhook.Events)},
			url:          cfg.Webhook.Endpoint,
			method:       method,
			httpClient:   httpClient,
		})
	}

	if cfg.Matrix != nil && cfg.Matrix.Enabled {
		d.notifiers = append(d.notifiers, &Matrix{
			baseNotifier: baseNotifier{name: "Matrix", enabled: true, kinds: model.ParseKinds(cfg.Matrix.Events)},
			homeserver:   cfg.Matrix.Homeserver,
			accessToken:  cfg.Matrix.AccessToken,
			roomID:       cfg.Matrix.RoomID,
			httpClient:   httpClient,
		})
	}

	if cfg.Pushover != nil && cfg.Pushover.Enabled {
		d.notifiers = append(d.notifiers, &Pushover{
			baseNotifier: baseNotifier{name: "Pushover", enabled: true, kinds: model.ParseKinds(cfg.Pushover.Events)},
			endpoint:     pushoverEndpoint,
			token:        cfg.Pushover.APIToken,
			userKey:      cfg.Pushover.UserKey,
			httpClient:   httpClient,
		})
	}

	if cfg.Gotify != nil && cfg.Gotify.Enabled {
		d.notifiers = append(d.notifiers, &Gotify{
			baseNotifier: baseNotifier{name: "Gotify", enabled: true, kinds: model.ParseKinds(cfg.Gotify.Events)},
			url:          cfg.Gotify.URL,
			token:        cfg.Gotify.Token,
			httpClient:   httpClient,
		})
	}

	return d
}

// Dispatch sends a notification to all enabled notifiers that match kind.
// It returns immediately; sends run in the background.
func (d *Dispatcher) Dispatch(ctx context.Context, kind model.Kind, message string) {
	targets := d.targets(kind)
	if len(targets) == 0 {
		return
	}
	go func() {
		_ = d.send(context.WithoutCancel(ctx), targets, kind, message)
	}()
}

// DispatchSync is like Dispatch but waits for every send to finish and
// returns the joined send errors.
func (d *Dispatcher) DispatchSync(ctx context.Context, kind model.Kind, message string) error {
	return d.send(ctx, d.targets(kind), kind, message)
}

func (d *Dispatcher) targets(kind model.Kind) []Notifier {
	var out []Notifier
	for _, n := range d.notifiers {
		if n.IsEnabled() && n.ShouldNotify(kind) {
			out = append(out, n)
		}
	}
	return out
}

func (d *Dispatcher) send(ctx context.Context, targets []Notifier, kind model.Kind, message string) error {
	return workerpool.Run(ctx, targets, maxConcurrentSends, func(ctx context.Context, notifier Notifier) error {
		sendCtx, cancel := context.WithTimeout(ctx, defaultHTTPTimeout)
		defer cancel()
		if err := notifier.Send(sendCtx, kind, d.title, message); err != nil {
			d.log.Warn("notification send failed",
				"provider", notifier.Name(),
				"kind", string(kind),
				"error", err,
			)
			return err
		}
		return nil
	})
}

// NotifyFunc returns a logger.NotifyFunc that dispatches notifications via this Dispatcher.
func (d *Dispatcher) NotifyFunc() logger.NotifyFunc {
	return func(ctx context.Context, message string, kind model.Kind) {
		d.Dispatch(ctx, kind, message)
	}
}

// HasNotifiers reports whether any notifiers are configured.
func (d *Dispatcher) HasNotifiers() bool {
	return len(d.notifiers) > 0
}
