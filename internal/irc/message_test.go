package irc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLinePrivmsg(t *testing.T) {
	line := "@badge-info=;badges=moderator/1;bits=100;color=#FF0000;room-id=1337;user-id=42 :alice!alice@alice.tmi.twitch.tv PRIVMSG #somechannel :hello there\r\n"

	msg, err := ParseLine(line)
	require.NoError(t, err)

	assert.Equal(t, "PRIVMSG", msg.Command)
	assert.Equal(t, Prefix{Nick: "alice", User: "alice", Host: "alice.tmi.twitch.tv"}, msg.Prefix)
	assert.Equal(t, []string{"#somechannel", "hello there"}, msg.Params)
	assert.True(t, msg.HasTrailing)
	assert.Equal(t, "100", msg.Tags["bits"])
	assert.Equal(t, "", msg.Tags["badge-info"])
	assert.Contains(t, msg.Tags, "badge-info")

	trailing, ok := msg.Trailing()
	assert.True(t, ok)
	assert.Equal(t, "hello there", trailing)
	assert.Equal(t, []string{"#somechannel"}, msg.Middle())
}

func TestParseLineKeepsEscapedTagValues(t *testing.T) {
	msg, err := ParseLine(`@ban-reason=being\smean;target-user-id=7 :tmi.twitch.tv CLEARCHAT #chan :bob`)
	require.NoError(t, err)

	assert.Equal(t, `being\smean`, msg.Tags["ban-reason"])
	assert.Equal(t, "tmi.twitch.tv", msg.Prefix.Host)
	assert.Empty(t, msg.Prefix.Nick)
}

func TestParseLineTagWithoutValue(t *testing.T) {
	msg, err := ParseLine("@flag;emote-only=1 :tmi.twitch.tv ROOMSTATE #chan")
	require.NoError(t, err)

	v, ok := msg.Tags["flag"]
	assert.True(t, ok)
	assert.Empty(t, v)
	assert.False(t, msg.HasTrailing)
	_, ok = msg.Trailing()
	assert.False(t, ok)
}

func TestParseLineMode(t *testing.T) {
	msg, err := ParseLine(":jtv MODE #somechannel +o somemod")
	require.NoError(t, err)

	assert.Equal(t, "jtv", msg.Prefix.Nick)
	assert.Equal(t, []string{"#somechannel", "+o", "somemod"}, msg.Params)
	assert.False(t, msg.HasTrailing)
}

func TestParseLineEmptyTrailing(t *testing.T) {
	msg, err := ParseLine(":alice!alice@alice.tmi.twitch.tv PRIVMSG #chan :")
	require.NoError(t, err)

	trailing, ok := msg.Trailing()
	assert.True(t, ok)
	assert.Empty(t, trailing)
}

func TestParseLineErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
		want error
	}{
		{"empty", "", ErrEmptyLine},
		{"whitespace", "  \r\n", ErrEmptyLine},
		{"tags only", "@a=b", ErrMissingCommand},
		{"prefix only", ":tmi.twitch.tv", ErrMissingCommand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLine(tt.line)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParsePrefix(t *testing.T) {
	tests := []struct {
		raw  string
		want Prefix
	}{
		{"nick!user@host.tv", Prefix{Nick: "nick", User: "user", Host: "host.tv"}},
		{"nick@host.tv", Prefix{Nick: "nick", Host: "host.tv"}},
		{"tmi.twitch.tv", Prefix{Host: "tmi.twitch.tv"}},
		{"jtv", Prefix{Nick: "jtv"}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, parsePrefix(tt.raw))
		})
	}
}
