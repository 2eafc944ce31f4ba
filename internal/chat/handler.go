package chat

import (
	"context"
	"strings"

	"github.com/Guliveer/twitch-chat-go/internal/eventbus"
	"github.com/Guliveer/twitch-chat-go/internal/logger"
	"github.com/Guliveer/twitch-chat-go/internal/model"
)

// Handler logs classified chat events for one account. It reports the
// account's own joins and parts, detects @mentions of the account and logs
// the kinds selected in LogEvents through logger.Event, which triggers
// notifications.
type Handler struct {
	username  string
	logEvents map[model.Kind]bool
	log       *logger.Logger
}

// NewHandler creates a new chat event Handler.
func NewHandler(username string, logEvents []model.Kind, log *logger.Logger) *Handler {
	kinds := make(map[model.Kind]bool, len(logEvents))
	for _, k := range logEvents {
		kinds[k] = true
	}
	return &Handler{
		username:  strings.ToLower(username),
		logEvents: kinds,
		log:       log,
	}
}

// Attach subscribes the handler to every event on bus.
func (h *Handler) Attach(bus *eventbus.Bus) func() {
	return bus.SubscribeAll(h.HandleEnvelope)
}

// HandleEnvelope processes one published event.
func (h *Handler) HandleEnvelope(env eventbus.Envelope) {
	ctx := context.Background()

	switch e := env.Event.(type) {
	case model.ChannelJoin:
		if h.isSelf(e.User) {
			h.log.Info("💬 Joined IRC chat", "channel", e.Channel.Name)
		}
	case model.ChannelLeave:
		if h.isSelf(e.User) {
			h.log.Info("💬 Left IRC chat", "channel", e.Channel.Name)
		}
	case model.ChannelMessage:
		h.checkMention(ctx, e.Channel, e.User, e.Message)
	case model.ActionMessage:
		h.checkMention(ctx, e.Channel, e.User, e.Message)
	}

	if !h.logEvents[env.Kind()] {
		return
	}
	msg, args := describe(env.Event)
	h.log.Event(ctx, env.Kind(), msg, args...)
}

// checkMention logs a CHAT_MENTION event when message names the account.
func (h *Handler) checkMention(ctx context.Context, channel *model.Channel, user *model.User, message string) {
	if h.username == "" || h.isSelf(user) {
		return
	}
	if !strings.Contains(strings.ToLower(message), h.username) {
		return
	}
	h.log.Event(
		ctx,
		model.KindChatMention,
		"Chat mention detected",
		"user", user.Name,
		"channel", channel.Name,
		"message", message,
	)
}

func (h *Handler) isSelf(user *model.User) bool {
	return user != nil && h.username != "" && strings.EqualFold(user.Name, h.username)
}

// OnConnect is called when the IRC client connects to the server.
func (h *Handler) OnConnect() {
	h.log.Info("💬 Connected to Twitch IRC")
}

// OnReconnect is called when the IRC client reconnects to the server.
func (h *Handler) OnReconnect() {
	h.log.Info("💬 Reconnected to Twitch IRC")
}

// describe renders an event as a log message with key/value attributes.
func describe(event model.Event) (string, []any) {
	switch e := event.(type) {
	case model.ChannelMessage:
		return "Chat message", []any{"channel", e.Channel.Name, "user", e.User.Name, "message", e.Message}
	case model.ActionMessage:
		return "Chat action", []any{"channel", e.Channel.Name, "user", e.User.Name, "message", e.Message}
	case model.Cheer:
		return "Cheer", []any{"channel", e.Channel.Name, "user", e.User.Name, "bits", e.Bits}
	case model.PrivateMessage:
		return "Whisper received", []any{"user", e.User.Name, "message", e.Message}
	case model.Subscription:
		args := []any{"channel", e.Channel.Name, "user", e.User.Name, "plan", e.SubPlan, "months", e.Months}
		if e.Gifted && e.GiftedBy != nil {
			return "Gifted subscription", append(args, "gifted_by", e.GiftedBy.Name)
		}
		return "Subscription", args
	case model.GiftSubscriptions:
		return "Gift subscriptions", []any{"channel", e.Channel.Name, "user", e.User.Name, "count", e.Count, "total", e.TotalCount}
	case model.Raid:
		return "Incoming raid", []any{"channel", e.Channel.Name, "user", e.Raider.Name, "viewers", e.Viewers}
	case model.UserTimeout:
		return "User timed out", []any{"channel", e.Channel.Name, "user", e.User.Name, "duration", e.Duration, "reason", e.Reason}
	case model.UserBan:
		return "User banned", []any{"channel", e.Channel.Name, "user", e.User.Name, "reason", e.Reason}
	case model.ClearChat:
		return "Chat cleared", []any{"channel", e.Channel.Name}
	case model.ChannelJoin:
		return "User joined", []any{"channel", e.Channel.Name, "user", e.User.Name}
	case model.ChannelLeave:
		return "User left", []any{"channel", e.Channel.Name, "user", e.User.Name}
	case model.ChannelMod:
		if e.Granted {
			return "Moderator added", []any{"channel", e.Channel.Name, "user", e.User.Name}
		}
		return "Moderator removed", []any{"channel", e.Channel.Name, "user", e.User.Name}
	case model.ChannelNotice:
		return "Channel notice", []any{"channel", e.Channel.Name, "msg_id", e.MsgID, "message", e.Message}
	case model.HostOn:
		return "Hosting started", []any{"channel", e.Channel.Name, "target", e.Target.Name}
	case model.HostOff:
		return "Hosting stopped", []any{"channel", e.Channel.Name}
	case model.ChannelState:
		return "Room state changed", []any{"channel", e.Channel.Name, "states", len(e.States)}
	default:
		return string(event.Kind()), nil
	}
}
