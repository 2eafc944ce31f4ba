package classifier

import (
	"github.com/Guliveer/twitch-chat-go/internal/irc"
	"github.com/Guliveer/twitch-chat-go/internal/model"
)

const (
	msgIDHostOn  = "host_on"
	msgIDHostOff = "host_off"

	// "Now hosting " precedes the target name, a trailing "." follows it.
	hostOnPrefixLen = 12
	hostOnSuffixLen = 1
)

// A channel notice is always published first; host changes follow it.
func classifyNotice(rec irc.Record, sink Sink) {
	if rec.Channel == nil {
		return
	}

	msgID := rec.Tags["msg-id"]
	sink.Publish(model.ChannelNotice{
		Channel: rec.Channel,
		MsgID:   msgID,
		Message: rec.Message,
	})

	switch msgID {
	case msgIDHostOn:
		target := hostTarget(rec.Message)
		if target == "" {
			return
		}
		sink.Publish(model.HostOn{
			Channel: rec.Channel,
			Target:  model.NewChannel("", target),
		})
	case msgIDHostOff:
		sink.Publish(model.HostOff{Channel: rec.Channel})
	}
}

func hostTarget(message string) string {
	if len(message) <= hostOnPrefixLen+hostOnSuffixLen {
		return ""
	}
	return message[hostOnPrefixLen : len(message)-hostOnSuffixLen]
}
