package classifier

import (
	"golang.org/x/text/language"

	"github.com/Guliveer/twitch-chat-go/internal/irc"
	"github.com/Guliveer/twitch-chat-go/internal/model"
)

func (c *Classifier) classifyRoomState(rec irc.Record, sink Sink) {
	if rec.Channel == nil || len(rec.Tags) <= c.roomStateThreshold {
		return
	}

	states := make(model.RoomState)
	for key, value := range rec.Tags {
		switch key {
		case "broadcaster-lang":
			states[model.StateBroadcastLang] = parseLanguage(value)
		case "emote-only":
			states[model.StateEmote] = value == "1"
		case "followers-only":
			states[model.StateFollowers] = parseInt64(value, 0)
		case "r9k":
			states[model.StateR9K] = value == "1"
		case "slow":
			states[model.StateSlow] = parseInt64(value, 0)
		case "subs-only":
			states[model.StateSubscribers] = value == "1"
		}
	}

	sink.Publish(model.ChannelState{Channel: rec.Channel, States: states})
}

// parseLanguage returns language.Und for an empty or malformed tag.
func parseLanguage(value string) language.Tag {
	if value == "" {
		return language.Und
	}
	tag, err := language.Parse(value)
	if err != nil {
		return language.Und
	}
	return tag
}
