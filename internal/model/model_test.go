package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestPermissions(t *testing.T) {
	ps := NewPermissions(PermissionEveryone, PermissionModerator).With(PermissionSubscriber)

	assert.True(t, ps.Has(PermissionModerator))
	assert.False(t, ps.Has(PermissionVIP))
	assert.Equal(t, []string{"EVERYONE", "SUBSCRIBER", "MODERATOR"}, ps.List())
	assert.Equal(t, "EVERYONE|SUBSCRIBER|MODERATOR", ps.String())
	assert.Equal(t, "BROADCASTER", PermissionBroadcaster.String())
	assert.Equal(t, "UNKNOWN", Permission(0).String())

	data, err := json.Marshal(ps)
	require.NoError(t, err)
	assert.JSONEq(t, `["EVERYONE","SUBSCRIBER","MODERATOR"]`, string(data))

	empty, err := json.Marshal(NewPermissions())
	require.NoError(t, err)
	assert.Equal(t, "[]", string(empty))
}

func TestParseKind(t *testing.T) {
	assert.Equal(t, KindRaid, ParseKind(" raid "))
	assert.Equal(t, KindChatMention, ParseKind("CHAT_MENTION"))
	assert.Equal(t, Kind(""), ParseKind("RAIDS"))
	assert.Equal(t, []Kind{KindCheer, KindHostOff}, ParseKinds([]string{"cheer", "bogus", "host_off"}))

	for _, k := range AllKinds() {
		assert.Equal(t, k, ParseKind(k.String()))
	}
}

func TestEventKinds(t *testing.T) {
	tests := []struct {
		event Event
		kind  Kind
	}{
		{ChannelMessage{}, KindChannelMessage},
		{ActionMessage{}, KindActionMessage},
		{Cheer{}, KindCheer},
		{PrivateMessage{}, KindPrivateMessage},
		{Subscription{}, KindSubscription},
		{GiftSubscriptions{}, KindGiftSubscriptions},
		{Raid{}, KindRaid},
		{UserTimeout{}, KindUserTimeout},
		{UserBan{}, KindUserBan},
		{ClearChat{}, KindClearChat},
		{ChannelJoin{}, KindChannelJoin},
		{ChannelLeave{}, KindChannelLeave},
		{ChannelMod{}, KindChannelMod},
		{ChannelNotice{}, KindChannelNotice},
		{HostOn{}, KindHostOn},
		{HostOff{}, KindHostOff},
		{ChannelState{}, KindChannelState},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.event.Kind())
			_, scoped := tt.event.(ChannelScoped)
			assert.Equal(t, tt.kind != KindPrivateMessage, scoped)
		})
	}
}

func TestEventChannel(t *testing.T) {
	ch := NewChannel("1", "forsen")
	var e Event = HostOn{Channel: ch, Target: NewChannel("", "xqc")}

	scoped, ok := e.(ChannelScoped)
	require.True(t, ok)
	assert.Same(t, ch, scoped.EventChannel())
}

func TestRoomState(t *testing.T) {
	rs := RoomState{
		StateBroadcastLang: language.MustParse("pt-BR"),
		StateEmote:         true,
		StateSlow:          int64(30),
	}

	emote, ok := rs.Bool(StateEmote)
	assert.True(t, ok)
	assert.True(t, emote)

	_, ok = rs.Bool(StateR9K)
	assert.False(t, ok)

	slow, ok := rs.Int(StateSlow)
	assert.True(t, ok)
	assert.Equal(t, int64(30), slow)

	lang, ok := rs.Language()
	assert.True(t, ok)
	assert.Equal(t, "pt-BR", lang.String())

	data, err := json.Marshal(rs)
	require.NoError(t, err)
	assert.JSONEq(t, `{"BROADCAST_LANG":"pt-BR","EMOTE":true,"SLOW":30}`, string(data))
}

func TestIdentityStrings(t *testing.T) {
	assert.Equal(t, "Channel(id=1, name=forsen)", NewChannel("1", "forsen").String())
	assert.Equal(t, "User(id=, name=alice)", NewUser("", "alice").String())

	var nilUser *User
	assert.Equal(t, "User(nil)", nilUser.String())
}

func TestEventJSON(t *testing.T) {
	sub := Subscription{
		Channel: NewChannel("1", "forsen"),
		User:    NewUser("2", "alice"),
		SubPlan: "Prime",
		Months:  3,
	}

	data, err := json.Marshal(sub)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "Prime", decoded["sub_plan"])
	assert.NotContains(t, decoded, "gifted_by")
	assert.Equal(t, map[string]any{"id": "2", "name": "alice"}, decoded["user"])
}
