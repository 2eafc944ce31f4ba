package chat

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guliveer/twitch-chat-go/internal/classifier"
	"github.com/Guliveer/twitch-chat-go/internal/eventbus"
	"github.com/Guliveer/twitch-chat-go/internal/logger"
	"github.com/Guliveer/twitch-chat-go/internal/metrics"
	"github.com/Guliveer/twitch-chat-go/internal/model"
)

type fixture struct {
	manager *Manager
	metrics *metrics.Metrics
	logs    *bytes.Buffer
	events  []eventbus.Envelope
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()

	f := &fixture{logs: &bytes.Buffer{}}
	log, err := logger.Setup(logger.Config{Level: slog.LevelDebug, Output: f.logs})
	require.NoError(t, err)

	f.metrics = metrics.New(prometheus.NewRegistry())
	opts.Metrics = f.metrics

	bus := eventbus.New("bot", log)
	bus.SubscribeAll(func(env eventbus.Envelope) { f.events = append(f.events, env) })

	f.manager = NewManager(opts, bus, log)
	return f
}

func TestHandleLinePublishesClassifiedEvents(t *testing.T) {
	f := newFixture(t, Options{Username: "Bot", AuthToken: "token"})

	f.manager.HandleLine("@badges=;bits=100;room-id=11;user-id=22 :alice!alice@alice.tmi.twitch.tv PRIVMSG #forsen :Cheer100 nice\r\n")

	require.Len(t, f.events, 1)
	cheer, ok := f.events[0].Event.(model.Cheer)
	require.True(t, ok)
	assert.Equal(t, 100, cheer.Bits)
	assert.Equal(t, "forsen", cheer.Channel.Name)
	assert.Equal(t, "alice", cheer.User.Name)
	assert.Equal(t, "bot", f.events[0].Account)

	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.LinesTotal.WithLabelValues("bot", "PRIVMSG")))
}

func TestHandleLineFeedsMultipleEvents(t *testing.T) {
	f := newFixture(t, Options{Username: "bot", AuthToken: "token"})

	f.manager.HandleLine("@msg-id=host_on :tmi.twitch.tv NOTICE #forsen :Now hosting xqc.")

	require.Len(t, f.events, 2)
	assert.Equal(t, model.KindChannelNotice, f.events[0].Kind())
	assert.Equal(t, model.KindHostOn, f.events[1].Kind())
}

func TestHandleLineCountsParseErrors(t *testing.T) {
	f := newFixture(t, Options{Username: "bot", AuthToken: "token"})

	f.manager.HandleLine("")
	f.manager.HandleLine("@only-tags")

	assert.Empty(t, f.events)
	assert.Equal(t, float64(2), testutil.ToFloat64(f.metrics.ParseErrorsTotal.WithLabelValues("bot")))
	assert.Contains(t, f.logs.String(), "Dropping unparsable IRC line")
}

func TestHandleLineUsesConfiguredClassifier(t *testing.T) {
	f := newFixture(t, Options{
		Username:   "bot",
		AuthToken:  "token",
		Classifier: classifier.New(classifier.WithRoomStateThreshold(0)),
	})

	f.manager.HandleLine("@room-id=11;slow=10 :tmi.twitch.tv ROOMSTATE #forsen")

	require.Len(t, f.events, 1)
	state, ok := f.events[0].Event.(model.ChannelState)
	require.True(t, ok)
	slow, ok := state.States.Int(model.StateSlow)
	assert.True(t, ok)
	assert.Equal(t, int64(10), slow)
}

func TestHandleLineModeFromUnsetCallback(t *testing.T) {
	f := newFixture(t, Options{Username: "bot", AuthToken: "token"})

	f.manager.HandleLine(":jtv MODE #forsen +o alice")

	require.Len(t, f.events, 1)
	mod, ok := f.events[0].Event.(model.ChannelMod)
	require.True(t, ok)
	assert.True(t, mod.Granted)
	assert.Equal(t, "alice", mod.User.Name)
}

func TestSelfJoinIsLogged(t *testing.T) {
	f := newFixture(t, Options{Username: "Bot", AuthToken: "token"})

	f.manager.HandleLine(":bot!bot@bot.tmi.twitch.tv JOIN #forsen")
	f.manager.HandleLine(":alice!alice@alice.tmi.twitch.tv JOIN #forsen")

	require.Len(t, f.events, 2)
	assert.Equal(t, 1, bytes.Count(f.logs.Bytes(), []byte("Joined IRC chat")))
}

func TestJoinLeave(t *testing.T) {
	f := newFixture(t, Options{Username: "bot"})
	m := f.manager

	require.NoError(t, m.Join("#Forsen"))
	require.NoError(t, m.Join("forsen"))
	require.NoError(t, m.Join("xqc"))

	assert.True(t, m.IsJoined("FORSEN"))
	assert.Equal(t, []string{"forsen", "xqc"}, m.JoinedChannels())

	require.NoError(t, m.Leave("forsen"))
	require.NoError(t, m.Leave("forsen"))
	assert.False(t, m.IsJoined("forsen"))
	assert.Equal(t, []string{"xqc"}, m.JoinedChannels())

	assert.Error(t, m.Join(" # "))
	assert.False(t, m.IsJoined(""))
}

func TestSendValidation(t *testing.T) {
	anon := newFixture(t, Options{Username: "bot"}).manager
	require.NoError(t, anon.Join("forsen"))
	assert.ErrorIs(t, anon.Say("forsen", "hi"), ErrAnonymous)

	m := newFixture(t, Options{Username: "bot", AuthToken: "oauth:token"}).manager
	assert.ErrorIs(t, m.Say("forsen", "hi"), ErrNotJoined)

	require.NoError(t, m.Join("forsen"))
	assert.ErrorIs(t, m.Say("forsen", "   "), ErrEmptyMessage)
	assert.Error(t, m.Reply("forsen", "", "hi"))
	assert.ErrorIs(t, m.Reply("xqc", "b34ccfc7-4977-403a-8a94-33c6bac34fb8", "hi"), ErrNotJoined)
}

func TestUsernameIsLowercased(t *testing.T) {
	f := newFixture(t, Options{Username: "BoT", AuthToken: "token"})
	assert.Equal(t, "bot", f.manager.Username())
	assert.NotNil(t, f.manager.Bus())
}
