package model

import "strings"

// Kind names a type of chat event. It is used for subscription routing,
// logging and notification filtering.
type Kind string

// All supported event kinds.
const (
	KindChannelMessage    Kind = "CHANNEL_MESSAGE"
	KindActionMessage     Kind = "ACTION_MESSAGE"
	KindCheer             Kind = "CHEER"
	KindPrivateMessage    Kind = "PRIVATE_MESSAGE"
	KindSubscription      Kind = "SUBSCRIPTION"
	KindGiftSubscriptions Kind = "GIFT_SUBSCRIPTIONS"
	KindRaid              Kind = "RAID"
	KindUserTimeout       Kind = "USER_TIMEOUT"
	KindUserBan           Kind = "USER_BAN"
	KindClearChat         Kind = "CLEAR_CHAT"
	KindChannelJoin       Kind = "CHANNEL_JOIN"
	KindChannelLeave      Kind = "CHANNEL_LEAVE"
	KindChannelMod        Kind = "CHANNEL_MOD"
	KindChannelNotice     Kind = "CHANNEL_NOTICE"
	KindHostOn            Kind = "HOST_ON"
	KindHostOff           Kind = "HOST_OFF"
	KindChannelState      Kind = "CHANNEL_STATE"

	// Notification-only kinds, never emitted by the classifier.
	KindChatMention Kind = "CHAT_MENTION"
	KindTest        Kind = "TEST"
)

// AllKinds returns a slice of all defined kinds.
func AllKinds() []Kind {
	return []Kind{
		KindChannelMessage,
		KindActionMessage,
		KindCheer,
		KindPrivateMessage,
		KindSubscription,
		KindGiftSubscriptions,
		KindRaid,
		KindUserTimeout,
		KindUserBan,
		KindClearChat,
		KindChannelJoin,
		KindChannelLeave,
		KindChannelMod,
		KindChannelNotice,
		KindHostOn,
		KindHostOff,
		KindChannelState,
		KindChatMention,
		KindTest,
	}
}

// String returns the string representation of a Kind.
func (k Kind) String() string {
	return string(k)
}

// ParseKind converts a string to a Kind. Matching ignores case.
// Returns empty string if invalid.
func ParseKind(s string) Kind {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, k := range AllKinds() {
		if string(k) == s {
			return k
		}
	}
	return ""
}

// ParseKinds converts a list of names, skipping unknown ones.
func ParseKinds(names []string) []Kind {
	kinds := make([]Kind, 0, len(names))
	for _, name := range names {
		if k := ParseKind(name); k != "" {
			kinds = append(kinds, k)
		}
	}
	return kinds
}
