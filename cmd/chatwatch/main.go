// Command chatwatch connects to Twitch chat for every configured account,
// classifies the IRC traffic into chat events, and exposes them over HTTP.
// It manages graceful shutdown via OS signals.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/Guliveer/twitch-chat-go/internal/chat"
	"github.com/Guliveer/twitch-chat-go/internal/classifier"
	"github.com/Guliveer/twitch-chat-go/internal/config"
	"github.com/Guliveer/twitch-chat-go/internal/constants"
	"github.com/Guliveer/twitch-chat-go/internal/eventbus"
	"github.com/Guliveer/twitch-chat-go/internal/logger"
	"github.com/Guliveer/twitch-chat-go/internal/metrics"
	"github.com/Guliveer/twitch-chat-go/internal/model"
	"github.com/Guliveer/twitch-chat-go/internal/notify"
	"github.com/Guliveer/twitch-chat-go/internal/server"
)

const banner = `
╔══════════════════════════════════════╗
║      Twitch Chat Watcher (Go)        ║
╚══════════════════════════════════════╝
`

func main() {
	configDir := flag.String("config", "", "Path to the configuration directory (overrides CONFIG_DIR env)")
	port := flag.String("port", "", "Port for the HTTP server (overrides PORT env)")
	logLevel := flag.String("log-level", "", "Log level: DEBUG, INFO, WARN, ERROR (overrides LOG_LEVEL env)")
	noColor := flag.Bool("no-color", false, "Disable colored output (overrides TTY detection)")
	envFile := flag.String("env-file", ".env", "Optional dotenv file with secrets")
	testNotify := flag.Bool("test-notify", false, "Send a TEST notification for every account and exit")
	flag.Parse()

	if err := config.LoadDotEnv(*envFile); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load env file: %v\n", err)
		os.Exit(1)
	}

	proc, err := config.LoadProcess()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read environment: %v\n", err)
		os.Exit(1)
	}
	if *configDir != "" {
		proc.ConfigDir = *configDir
	}
	if *port != "" {
		proc.Port = *port
	}
	if *logLevel != "" {
		proc.LogLevel = *logLevel
	}

	colored := !*noColor && term.IsTerminal(int(os.Stdout.Fd())) && os.Getenv("NO_COLOR") == ""

	rootLog, err := logger.Setup(logger.Config{
		Level:     logger.ParseLevel(proc.LogLevel),
		FileLevel: slog.LevelDebug,
		Colored:   colored,
		LogDir:    proc.LogDir,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to setup logger: %v\n", err)
		os.Exit(1)
	}

	fmt.Print(banner)
	rootLog.Info("🚀 Starting Twitch Chat Watcher")

	configs, err := config.LoadAllAccountConfigs(proc.ConfigDir)
	if err != nil {
		rootLog.Error("Failed to load account configs", "dir", proc.ConfigDir, "error", err)
		os.Exit(1)
	}

	for _, cfg := range configs {
		if err := config.Validate(cfg); err != nil {
			rootLog.Error("Invalid config", "account", cfg.Username, "error", err)
			os.Exit(1)
		}
	}

	rootLog.Info("📂 Loaded account configurations",
		"count", len(configs),
		"config_dir", proc.ConfigDir,
	)

	if *testNotify {
		os.Exit(sendTestNotifications(configs, rootLog))
	}

	reg := metrics.NewRegistry()
	m := metrics.New(reg)

	addr := ":" + proc.Port
	httpServer := server.New(addr, rootLog, server.Options{
		Registry:     reg,
		Metrics:      m,
		EventsBuffer: proc.EventsBuffer,
	})

	managers := make([]*chat.Manager, 0, len(configs))
	for _, cfg := range configs {
		if !cfg.IsEnabled() {
			rootLog.Info("Account is disabled, skipping", "account", cfg.Username)
			continue
		}

		manager, err := newAccount(cfg, rootLog, m)
		if err != nil {
			rootLog.Error("Failed to set up account", "account", cfg.Username, "error", err)
			os.Exit(1)
		}
		httpServer.AddAccount(manager)
		managers = append(managers, manager)
	}

	if len(managers) == 0 {
		rootLog.Error("All accounts are disabled, nothing to do")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		rootLog.Info("Received shutdown signal", "signal", sig.String())
		cancel()

		time.AfterFunc(constants.ForcedExitTimeout, func() {
			rootLog.Error("Graceful shutdown timed out, forcing exit")
			os.Exit(1)
		})
	}()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := httpServer.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	rootLog.Info("🌐 HTTP server started", "addr", addr)

	for _, manager := range managers {
		g.Go(func() error {
			accountLog := rootLog.WithAccount(manager.Username())
			if err := manager.Run(gctx); err != nil {
				if gctx.Err() != nil {
					accountLog.Info("Chat stopped due to shutdown")
				} else {
					accountLog.Error("Chat connection failed", "error", err)
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		rootLog.Error("HTTP server failed", "error", err)
		os.Exit(1)
	}

	rootLog.Info("👋 All chat connections stopped. Goodbye!")
}

// newAccount wires one account's event pipeline: notifications, the event
// bus and the chat manager joined to its configured channels.
func newAccount(cfg *config.AccountConfig, rootLog *logger.Logger, m *metrics.Metrics) (*chat.Manager, error) {
	accountLog := rootLog.WithAccount(cfg.Username)

	dispatcher := notify.NewDispatcher(cfg.Username, cfg.Notifications, accountLog)
	if dispatcher.HasNotifiers() {
		accountLog.SetNotifyFunc(dispatcher.NotifyFunc())
	}

	if cfg.Auth.AuthToken == "" {
		accountLog.Warn("No OAuth token set, connecting read-only",
			"env", "TWITCH_OAUTH_TOKEN_"+strings.ToUpper(cfg.Username))
	}

	bus := eventbus.New(cfg.Username, accountLog, eventbus.WithMetrics(m))
	manager := chat.NewManager(chat.Options{
		Username:   cfg.Username,
		AuthToken:  cfg.Auth.AuthToken,
		LogEvents:  cfg.ParsedLogEvents(),
		Classifier: classifier.New(cfg.ClassifierOptions()...),
		Metrics:    m,
	}, bus, accountLog)

	for _, channel := range cfg.Channels {
		if err := manager.Join(channel); err != nil {
			return nil, fmt.Errorf("joining %s: %w", channel, err)
		}
	}

	return manager, nil
}

// sendTestNotifications dispatches a TEST notification through every
// account's providers and returns the process exit code.
func sendTestNotifications(configs []*config.AccountConfig, rootLog *logger.Logger) int {
	code := 0
	for _, cfg := range configs {
		accountLog := rootLog.WithAccount(cfg.Username)
		dispatcher := notify.NewDispatcher(cfg.Username, cfg.Notifications, accountLog)
		if !dispatcher.HasNotifiers() {
			accountLog.Info("No notification providers configured")
			continue
		}

		err := dispatcher.DispatchSync(context.Background(), model.KindTest, "🧪 Test notification from chatwatch")
		if err != nil {
			accountLog.Error("Test notification failed", "error", err)
			code = 1
			continue
		}
		accountLog.Info("Test notification sent")
	}
	return code
}
