package chat

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/gempir/go-twitch-irc/v4"

	"github.com/Guliveer/twitch-chat-go/internal/classifier"
	"github.com/Guliveer/twitch-chat-go/internal/constants"
	"github.com/Guliveer/twitch-chat-go/internal/eventbus"
	"github.com/Guliveer/twitch-chat-go/internal/irc"
	"github.com/Guliveer/twitch-chat-go/internal/logger"
	"github.com/Guliveer/twitch-chat-go/internal/metrics"
	"github.com/Guliveer/twitch-chat-go/internal/model"
)

var (
	// ErrAnonymous is returned when sending from a connection without a token.
	ErrAnonymous = errors.New("anonymous connection cannot send messages")
	// ErrNotJoined is returned when sending to a channel that was not joined.
	ErrNotJoined = errors.New("channel not joined")
	// ErrEmptyMessage is returned when sending an empty message.
	ErrEmptyMessage = errors.New("empty message")
)

// Options configures a Manager.
type Options struct {
	Username string
	// AuthToken is the OAuth token without the "oauth:" prefix. An empty
	// token connects anonymously in read-only mode.
	AuthToken string
	// LogEvents lists the kinds the handler logs as notable events.
	LogEvents []model.Kind
	// Classifier defaults to classifier.New().
	Classifier *classifier.Classifier
	Metrics    *metrics.Metrics
}

// Manager manages the IRC chat connection of one account. Every line the
// server sends is classified and published on the account's event bus.
// The go-twitch-irc library handles PING/PONG keepalive and automatic
// reconnection internally.
type Manager struct {
	mu sync.Mutex

	client     *twitch.Client
	handler    *Handler
	bus        *eventbus.Bus
	classifier *classifier.Classifier
	metrics    *metrics.Metrics

	username  string
	anonymous bool

	channels map[string]bool
	running  bool

	log *logger.Logger
}

// NewManager creates a Manager publishing to bus.
func NewManager(opts Options, bus *eventbus.Bus, log *logger.Logger) *Manager {
	var client *twitch.Client
	if opts.AuthToken == "" {
		client = twitch.NewClient(constants.IRCAnonymousUser, "oauth:59301")
	} else {
		client = twitch.NewClient(opts.Username, "oauth:"+strings.TrimPrefix(opts.AuthToken, "oauth:"))
	}
	client.IrcAddress = constants.IRCAddress

	cls := opts.Classifier
	if cls == nil {
		cls = classifier.New()
	}

	handler := NewHandler(opts.Username, opts.LogEvents, log)
	handler.Attach(bus)

	manager := &Manager{
		client:     client,
		handler:    handler,
		bus:        bus,
		classifier: cls,
		metrics:    opts.Metrics,
		username:   strings.ToLower(opts.Username),
		anonymous:  opts.AuthToken == "",
		channels:   make(map[string]bool),
		log:        log,
	}

	client.OnPrivateMessage(func(msg twitch.PrivateMessage) { manager.HandleLine(msg.Raw) })
	client.OnWhisperMessage(func(msg twitch.WhisperMessage) { manager.HandleLine(msg.Raw) })
	client.OnClearChatMessage(func(msg twitch.ClearChatMessage) { manager.HandleLine(msg.Raw) })
	client.OnRoomStateMessage(func(msg twitch.RoomStateMessage) { manager.HandleLine(msg.Raw) })
	client.OnUserNoticeMessage(func(msg twitch.UserNoticeMessage) { manager.HandleLine(msg.Raw) })
	client.OnNoticeMessage(func(msg twitch.NoticeMessage) { manager.HandleLine(msg.Raw) })
	client.OnUserJoinMessage(func(msg twitch.UserJoinMessage) { manager.HandleLine(msg.Raw) })
	client.OnUserPartMessage(func(msg twitch.UserPartMessage) { manager.HandleLine(msg.Raw) })
	client.OnSelfJoinMessage(func(msg twitch.UserJoinMessage) { manager.HandleLine(msg.Raw) })
	client.OnSelfPartMessage(func(msg twitch.UserPartMessage) { manager.HandleLine(msg.Raw) })
	// MODE and other commands without a typed callback.
	client.OnUnsetMessage(func(msg twitch.RawMessage) { manager.HandleLine(msg.Raw) })

	client.OnConnect(handler.OnConnect)
	client.OnReconnectMessage(func(msg twitch.ReconnectMessage) {
		handler.OnReconnect()
	})

	return manager
}

// HandleLine classifies one raw IRC line and publishes the resulting events.
// Lines that cannot be tokenized are logged at debug level and dropped.
func (m *Manager) HandleLine(line string) {
	rec, err := irc.ParseRecord(line)
	if err != nil {
		m.log.Debug("Dropping unparsable IRC line", "error", err, "line", line)
		if m.metrics != nil {
			m.metrics.ParseErrorsTotal.WithLabelValues(m.username).Inc()
		}
		return
	}

	if m.metrics != nil {
		m.metrics.LinesTotal.WithLabelValues(m.username, rec.Command).Inc()
	}
	m.classifier.Classify(rec, m.bus)
}

// Bus returns the event bus the manager publishes to.
func (m *Manager) Bus() *eventbus.Bus {
	return m.bus
}

// Username returns the lower-cased account name.
func (m *Manager) Username() string {
	return m.username
}

// Join joins a channel. The channel name may carry a leading '#'.
func (m *Manager) Join(channelName string) error {
	channel, err := normalizeChannel(channelName)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.channels[channel] {
		m.log.Debug("Already in IRC", "channel", channel)
		return nil
	}

	m.channels[channel] = true
	m.client.Join(channel)
	m.log.Info("Join IRC Chat", "channel", channel)

	return nil
}

// Leave leaves a channel.
func (m *Manager) Leave(channelName string) error {
	channel, err := normalizeChannel(channelName)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.channels[channel] {
		m.log.Debug("Not in IRC", "channel", channel)
		return nil
	}

	delete(m.channels, channel)
	m.client.Depart(channel)
	m.log.Info("Leave IRC Chat", "channel", channel)

	return nil
}

// Say sends a chat message to a joined channel.
func (m *Manager) Say(channelName, text string) error {
	channel, err := m.checkSend(channelName, text)
	if err != nil {
		return err
	}
	m.client.Say(channel, text)
	return nil
}

// Reply sends a chat message threaded under the message with parentMsgID.
func (m *Manager) Reply(channelName, parentMsgID, text string) error {
	if parentMsgID == "" {
		return fmt.Errorf("reply in %s: missing parent message id", channelName)
	}
	channel, err := m.checkSend(channelName, text)
	if err != nil {
		return err
	}
	m.client.Reply(channel, parentMsgID, text)
	return nil
}

func (m *Manager) checkSend(channelName, text string) (string, error) {
	if m.anonymous {
		return "", ErrAnonymous
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyMessage
	}
	channel, err := normalizeChannel(channelName)
	if err != nil {
		return "", err
	}
	if !m.IsJoined(channel) {
		return "", fmt.Errorf("send to %s: %w", channel, ErrNotJoined)
	}
	return channel, nil
}

// Run connects to Twitch IRC and maintains presence. It blocks until the
// context is cancelled. The go-twitch-irc library handles reconnection
// automatically.
func (m *Manager) Run(ctx context.Context) error {
	m.mu.Lock()
	m.running = true
	m.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		err := m.client.Connect()
		if err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		m.Close()
		return ctx.Err()
	case err := <-errCh:
		if err != nil && ctx.Err() == nil {
			m.log.Error("IRC connection error", "error", err)
			return fmt.Errorf("irc connection: %w", err)
		}
		return ctx.Err()
	}
}

// Close disconnects from all channels and shuts down the IRC client.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}
	m.running = false

	for channel := range m.channels {
		m.client.Depart(channel)
		m.log.Info("Leave IRC Chat", "channel", channel)
	}
	m.channels = make(map[string]bool)

	if err := m.client.Disconnect(); err != nil {
		m.log.Debug("IRC disconnect", "error", err)
	}

	m.log.Info("IRC chat manager closed")
}

// IsJoined returns whether the manager is currently in the given channel.
func (m *Manager) IsJoined(channelName string) bool {
	channel, err := normalizeChannel(channelName)
	if err != nil {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.channels[channel]
}

// JoinedChannels returns the currently joined channels in name order.
func (m *Manager) JoinedChannels() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	channels := make([]string, 0, len(m.channels))
	for channelName := range m.channels {
		channels = append(channels, channelName)
	}
	sort.Strings(channels)
	return channels
}

func normalizeChannel(name string) (string, error) {
	channel := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "#"))
	if channel == "" {
		return "", errors.New("empty channel name")
	}
	return channel, nil
}
