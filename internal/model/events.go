package model

// Event is a typed chat occurrence derived from a single IRC line.
// The set of implementations is closed: only types in this package satisfy it.
type Event interface {
	Kind() Kind
	isEvent()
}

// ChannelScoped is implemented by events that happen inside a channel.
type ChannelScoped interface {
	EventChannel() *Channel
}

// ChannelMessage is a regular chat message.
type ChannelMessage struct {
	Channel     *Channel    `json:"channel"`
	User        *User       `json:"user"`
	Message     string      `json:"message"`
	Permissions Permissions `json:"permissions"`
}

// ActionMessage is a /me chat message with the ACTION prefix removed.
type ActionMessage struct {
	Channel     *Channel    `json:"channel"`
	User        *User       `json:"user"`
	Message     string      `json:"message"`
	Permissions Permissions `json:"permissions"`
}

// Cheer is a chat message carrying bits.
type Cheer struct {
	Channel *Channel `json:"channel"`
	User    *User    `json:"user"`
	Message string   `json:"message"`
	Bits    int      `json:"bits"`
}

// PrivateMessage is a whisper sent to the connected account.
type PrivateMessage struct {
	User        *User       `json:"user"`
	Message     string      `json:"message"`
	Permissions Permissions `json:"permissions"`
}

// Subscription is a new subscription, resubscription or a single gifted sub.
// GiftedBy is nil unless Gifted is set.
type Subscription struct {
	Channel  *Channel `json:"channel"`
	User     *User    `json:"user"`
	SubPlan  string   `json:"sub_plan"`
	Message  string   `json:"message"`
	Months   int      `json:"months"`
	Gifted   bool     `json:"gifted"`
	GiftedBy *User    `json:"gifted_by,omitempty"`
	// Streak is 0 when the user chose not to share it.
	Streak int `json:"streak"`
}

// GiftSubscriptions announces a batch of gifted subs from one user.
type GiftSubscriptions struct {
	Channel    *Channel `json:"channel"`
	User       *User    `json:"user"`
	SubPlan    string   `json:"sub_plan"`
	Count      int      `json:"count"`
	TotalCount int      `json:"total_count"`
}

// Raid is an incoming raid.
type Raid struct {
	Channel *Channel `json:"channel"`
	Raider  *User    `json:"raider"`
	Viewers int      `json:"viewers"`
}

// UserTimeout is a temporary ban. Duration is in seconds.
type UserTimeout struct {
	Channel  *Channel `json:"channel"`
	User     *User    `json:"user"`
	Duration int      `json:"duration"`
	Reason   string   `json:"reason"`
}

// UserBan is a permanent ban.
type UserBan struct {
	Channel *Channel `json:"channel"`
	User    *User    `json:"user"`
	Reason  string   `json:"reason"`
}

// ClearChat is a full chat clear by a moderator.
type ClearChat struct {
	Channel *Channel `json:"channel"`
}

// ChannelJoin is a user joining a channel.
type ChannelJoin struct {
	Channel *Channel `json:"channel"`
	User    *User    `json:"user"`
}

// ChannelLeave is a user leaving a channel.
type ChannelLeave struct {
	Channel *Channel `json:"channel"`
	User    *User    `json:"user"`
}

// ChannelMod is a moderator status change. User carries only a name.
type ChannelMod struct {
	Channel *Channel `json:"channel"`
	User    *User    `json:"user"`
	Granted bool     `json:"granted"`
}

// ChannelNotice is a server notice addressed to a channel.
type ChannelNotice struct {
	Channel *Channel `json:"channel"`
	MsgID   string   `json:"msg_id"`
	Message string   `json:"message"`
}

// HostOn is the channel starting to host Target.
type HostOn struct {
	Channel *Channel `json:"channel"`
	Target  *Channel `json:"target"`
}

// HostOff is the channel leaving host mode.
type HostOff struct {
	Channel *Channel `json:"channel"`
}

// ChannelState is a room state update. States holds only the keys present
// in the update.
type ChannelState struct {
	Channel *Channel  `json:"channel"`
	States  RoomState `json:"states"`
}

func (ChannelMessage) Kind() Kind { return KindChannelMessage }
func (ActionMessage) Kind() Kind { return KindActionMessage }
func (Cheer) Kind() Kind { return KindCheer }
func (PrivateMessage) Kind() Kind { return KindPrivateMessage }
func (Subscription) Kind() Kind { return KindSubscription }
func (GiftSubscriptions) Kind() Kind { return KindGiftSubscriptions }
func (Raid) Kind() Kind { return KindRaid }
func (UserTimeout) Kind() Kind { return KindUserTimeout }
func (UserBan) Kind() Kind { return KindUserBan }
func (ClearChat) Kind() Kind { return KindClearChat }
func (ChannelJoin) Kind() Kind { return KindChannelJoin }
func (ChannelLeave) Kind() Kind { return KindChannelLeave }
func (ChannelMod) Kind() Kind { return KindChannelMod }
func (ChannelNotice) Kind() Kind { return KindChannelNotice }
func (HostOn) Kind() Kind { return KindHostOn }
func (HostOff) Kind() Kind { return KindHostOff }
func (ChannelState) Kind() Kind { return KindChannelState }

func (ChannelMessage) isEvent() {}
func (ActionMessage) isEvent() {}
func (Cheer) isEvent() {}
func (PrivateMessage) isEvent() {}
func (Subscription) isEvent() {}
func (GiftSubscriptions) isEvent() {}
func (Raid) isEvent() {}
func (UserTimeout) isEvent() {}
func (UserBan) isEvent() {}
func (ClearChat) isEvent() {}
func (ChannelJoin) isEvent() {}
func (ChannelLeave) isEvent() {}
func (ChannelMod) isEvent() {}
func (ChannelNotice) isEvent() {}
func (HostOn) isEvent() {}
func (HostOff) isEvent() {}
func (ChannelState) isEvent() {}

func (e ChannelMessage) EventChannel() *Channel { return e.Channel }
func (e ActionMessage) EventChannel() *Channel { return e.Channel }
func (e Cheer) EventChannel() *Channel { return e.Channel }
func (e Subscription) EventChannel() *Channel { return e.Channel }
func (e GiftSubscriptions) EventChannel() *Channel { return e.Channel }
func (e Raid) EventChannel() *Channel { return e.Channel }
func (e UserTimeout) EventChannel() *Channel { return e.Channel }
func (e UserBan) EventChannel() *Channel { return e.Channel }
func (e ClearChat) EventChannel() *Channel { return e.Channel }
func (e ChannelJoin) EventChannel() *Channel { return e.Channel }
func (e ChannelLeave) EventChannel() *Channel { return e.Channel }
func (e ChannelMod) EventChannel() *Channel { return e.Channel }
func (e ChannelNotice) EventChannel() *Channel { return e.Channel }
func (e HostOn) EventChannel() *Channel { return e.Channel }
func (e HostOff) EventChannel() *Channel { return e.Channel }
func (e ChannelState) EventChannel() *Channel { return e.Channel }
