package classifier

import (
	"strings"

	"github.com/Guliveer/twitch-chat-go/internal/irc"
	"github.com/Guliveer/twitch-chat-go/internal/model"
)

// USERNOTICE msg-id values.
const (
	msgIDSub            = "sub"
	msgIDResub          = "resub"
	msgIDSubGift        = "subgift"
	msgIDSubMysteryGift = "submysterygift"
	msgIDRaid           = "raid"
)

func classifyUserNotice(rec irc.Record, sink Sink) {
	msgID, ok := rec.Tag("msg-id")
	if !ok || rec.Channel == nil {
		return
	}

	switch strings.ToLower(msgID) {
	case msgIDSub, msgIDResub:
		classifySubscription(rec, sink)
	case msgIDSubGift:
		classifySubGift(rec, sink)
	case msgIDSubMysteryGift:
		classifyMysteryGift(rec, sink)
	case msgIDRaid:
		classifyRaid(rec, sink)
	}
}

func classifySubscription(rec irc.Record, sink Sink) {
	if rec.User == nil {
		return
	}

	// New subs sometimes report 0 months.
	months := intTag(rec, "msg-param-cumulative-months", 0)
	if months == 0 {
		months = 1
	}

	sink.Publish(model.Subscription{
		Channel: rec.Channel,
		User:    rec.User,
		SubPlan: rec.Tags["msg-param-sub-plan"],
		Message: rec.Message,
		Months:  months,
		Gifted:  false,
		// 0 when the user does not share the streak.
		Streak: intTag(rec, "msg-param-streak-months", 0),
	})
}

func classifySubGift(rec irc.Record, sink Sink) {
	recipientName := rec.Tags["msg-param-recipient-user-name"]
	if recipientName == "" || rec.User == nil {
		return
	}

	months := intTag(rec, "msg-param-months", 1)
	if months == 0 {
		months = 1
	}

	sink.Publish(model.Subscription{
		Channel:  rec.Channel,
		User:     model.NewUser(rec.Tags["msg-param-recipient-id"], recipientName),
		SubPlan:  rec.Tags["msg-param-sub-plan"],
		Message:  rec.Message,
		Months:   months,
		Gifted:   true,
		GiftedBy: rec.User,
		Streak:   0,
	})
}

func classifyMysteryGift(rec irc.Record, sink Sink) {
	if rec.User == nil {
		return
	}
	sink.Publish(model.GiftSubscriptions{
		Channel:    rec.Channel,
		User:       rec.User,
		SubPlan:    rec.Tags["msg-param-sub-plan"],
		Count:      intTag(rec, "msg-param-mass-gift-count", 0),
		TotalCount: intTag(rec, "msg-param-sender-count", 0),
	})
}

func classifyRaid(rec irc.Record, sink Sink) {
	if rec.User == nil {
		return
	}
	sink.Publish(model.Raid{
		Channel: rec.Channel,
		Raider:  rec.User,
		Viewers: intTag(rec, "msg-param-viewerCount", 0),
	})
}
