// Package classifier turns protocol records into typed chat events.
//
// Classification is a pure function of the record: it performs no I/O, never
// mutates its input and never fails. Malformed numeric tags fall back to
// defaults, and an event whose channel or user cannot be resolved is
// dropped without affecting the other events of the same record.
package classifier

import (
	"strings"

	"github.com/Guliveer/twitch-chat-go/internal/irc"
	"github.com/Guliveer/twitch-chat-go/internal/model"
)

// DefaultRoomStateThreshold is the tag count a ROOMSTATE line must exceed
// before it is reported. Twitch always sends room-id and tmi-sent-ts.
const DefaultRoomStateThreshold = 2

// actionPrefix starts a /me message.
const actionPrefix = "\u0001ACTION "

// Sink receives classified events in emission order.
type Sink interface {
	Publish(event model.Event)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(event model.Event)

// Publish calls f(event).
func (f SinkFunc) Publish(event model.Event) { f(event) }

// Option configures a Classifier.
type Option func(*Classifier)

// WithRoomStateThreshold overrides DefaultRoomStateThreshold. Negative values
// are treated as zero.
func WithRoomStateThreshold(n int) Option {
	return func(c *Classifier) {
		if n < 0 {
			n = 0
		}
		c.roomStateThreshold = n
	}
}

// Classifier maps IRC records to domain events. It holds only immutable
// configuration and is safe for concurrent use.
type Classifier struct {
	roomStateThreshold int
}

// New creates a Classifier.
func New(opts ...Option) *Classifier {
	c := &Classifier{roomStateThreshold: DefaultRoomStateThreshold}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Events classifies rec and returns the resulting events in order.
func (c *Classifier) Events(rec irc.Record) []model.Event {
	var events []model.Event
	c.Classify(rec, SinkFunc(func(e model.Event) {
		events = append(events, e)
	}))
	return events
}

// Classify publishes every event derived from rec to sink. Records with an
// unknown command produce nothing.
func (c *Classifier) Classify(rec irc.Record, sink Sink) {
	switch rec.Command {
	case irc.CommandPrivmsg:
		if rec.HasTag("bits") {
			classifyCheer(rec, sink)
		} else if rec.HasMessage {
			classifyChannelMessage(rec, sink)
		}
	case irc.CommandWhisper:
		classifyWhisper(rec, sink)
	case irc.CommandUserNotice:
		classifyUserNotice(rec, sink)
	case irc.CommandClearChat:
		classifyClearChat(rec, sink)
	case irc.CommandJoin:
		if rec.Channel != nil && rec.User != nil {
			sink.Publish(model.ChannelJoin{Channel: rec.Channel, User: rec.User})
		}
	case irc.CommandPart:
		if rec.Channel != nil && rec.User != nil {
			sink.Publish(model.ChannelLeave{Channel: rec.Channel, User: rec.User})
		}
	case irc.CommandMode:
		classifyMode(rec, sink)
	case irc.CommandNotice:
		classifyNotice(rec, sink)
	case irc.CommandRoomState:
		c.classifyRoomState(rec, sink)
	}
}

func classifyCheer(rec irc.Record, sink Sink) {
	if rec.Channel == nil || rec.User == nil {
		return
	}
	sink.Publish(model.Cheer{
		Channel: rec.Channel,
		User:    rec.User,
		Message: rec.Message,
		Bits:    intTag(rec, "bits", 0),
	})
}

func classifyChannelMessage(rec irc.Record, sink Sink) {
	if rec.Channel == nil || rec.User == nil {
		return
	}
	// The trailing \u0001 of an action is left in place.
	if text, ok := strings.CutPrefix(rec.Message, actionPrefix); ok {
		sink.Publish(model.ActionMessage{
			Channel:     rec.Channel,
			User:        rec.User,
			Message:     text,
			Permissions: rec.Permissions,
		})
		return
	}
	sink.Publish(model.ChannelMessage{
		Channel:     rec.Channel,
		User:        rec.User,
		Message:     rec.Message,
		Permissions: rec.Permissions,
	})
}

func classifyWhisper(rec irc.Record, sink Sink) {
	if !rec.HasMessage || rec.User == nil {
		return
	}
	sink.Publish(model.PrivateMessage{
		User:        rec.User,
		Message:     rec.Message,
		Permissions: rec.Permissions,
	})
}

func classifyMode(rec irc.Record, sink Sink) {
	if !rec.HasPayload || rec.Channel == nil {
		return
	}
	payload := rec.Payload
	if len(payload) < 2 || payload[1] != 'o' {
		return
	}
	// "+o name": the name starts after the sign, the mode letter and a space.
	if len(payload) <= 3 {
		return
	}
	sink.Publish(model.ChannelMod{
		Channel: rec.Channel,
		User:    model.NewUser("", payload[3:]),
		Granted: payload[0] == '+',
	})
}
