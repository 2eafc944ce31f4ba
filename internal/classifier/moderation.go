package classifier

import (
	"strings"

	"github.com/Guliveer/twitch-chat-go/internal/irc"
	"github.com/Guliveer/twitch-chat-go/internal/model"
)

// CLEARCHAT covers three cases: a timeout (target and ban-duration), a
// permanent ban (target only) and a full clear (no target).
func classifyClearChat(rec irc.Record, sink Sink) {
	if rec.Channel == nil {
		return
	}

	if !rec.HasTag("target-user-id") {
		sink.Publish(model.ClearChat{Channel: rec.Channel})
		return
	}

	if rec.TargetUser == nil {
		return
	}

	reason := banReason(rec)
	if rec.HasTag("ban-duration") {
		sink.Publish(model.UserTimeout{
			Channel:  rec.Channel,
			User:     rec.TargetUser,
			Duration: intTag(rec, "ban-duration", 0),
			Reason:   reason,
		})
		return
	}

	sink.Publish(model.UserBan{
		Channel: rec.Channel,
		User:    rec.TargetUser,
		Reason:  reason,
	})
}

func banReason(rec irc.Record) string {
	return strings.ReplaceAll(rec.Tags["ban-reason"], `\s`, " ")
}
