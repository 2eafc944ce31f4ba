package notify

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guliveer/twitch-chat-go/internal/config"
	"github.com/Guliveer/twitch-chat-go/internal/logger"
	"github.com/Guliveer/twitch-chat-go/internal/model"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   string
}

type recorder struct {
	mu       sync.Mutex
	requests []recordedRequest
	status   int
}

func newRecorder(t *testing.T, status int) (*recorder, *httptest.Server) {
	t.Helper()
	rec := &recorder{status: status}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rec.mu.Lock()
		rec.requests = append(rec.requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
			Body:   string(body),
		})
		rec.mu.Unlock()
		w.WriteHeader(rec.status)
	}))
	t.Cleanup(srv.Close)
	return rec, srv
}

func (r *recorder) all() []recordedRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recordedRequest(nil), r.requests...)
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.Setup(logger.Config{Level: slog.LevelError, Output: io.Discard})
	require.NoError(t, err)
	return log
}

func decodeBody(t *testing.T, body string) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	return out
}

func TestDispatcherFiltersByKind(t *testing.T) {
	rec, srv := newRecorder(t, http.StatusNoContent)

	d := NewDispatcher("bot", config.NotificationsConfig{
		Discord: &config.DiscordConfig{Enabled: true, WebhookURL: srv.URL + "/discord", Events: []string{"RAID"}},
		Webhook: &config.WebhookConfig{Enabled: true, Endpoint: srv.URL + "/hook", Events: []string{"raid", "USER_BAN"}},
		Gotify:  &config.GotifyConfig{Enabled: false, URL: srv.URL, Events: []string{"RAID"}},
	}, testLogger(t))
	require.True(t, d.HasNotifiers())

	require.NoError(t, d.DispatchSync(context.Background(), model.KindRaid, "raid incoming"))
	require.NoError(t, d.DispatchSync(context.Background(), model.KindUserBan, "banned"))
	require.NoError(t, d.DispatchSync(context.Background(), model.KindCheer, "ignored"))

	paths := map[string]int{}
	for _, r := range rec.all() {
		paths[r.Path]++
	}
	assert.Equal(t, map[string]int{"/discord": 1, "/hook": 2}, paths)
}

func TestDispatcherJoinsErrors(t *testing.T) {
	_, srv := newRecorder(t, http.StatusInternalServerError)

	d := NewDispatcher("bot", config.NotificationsConfig{
		Discord: &config.DiscordConfig{Enabled: true, WebhookURL: srv.URL, Events: []string{"RAID"}},
		Gotify:  &config.GotifyConfig{Enabled: true, URL: srv.URL, Token: "t", Events: []string{"RAID"}},
	}, testLogger(t))

	err := d.DispatchSync(context.Background(), model.KindRaid, "raid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "discord: unexpected status 500")
	assert.Contains(t, err.Error(), "gotify: unexpected status 500")
}

func TestNotifyFuncDispatchesInBackground(t *testing.T) {
	rec, srv := newRecorder(t, http.StatusOK)

	d := NewDispatcher("bot", config.NotificationsConfig{
		Webhook: &config.WebhookConfig{Enabled: true, Endpoint: srv.URL, Events: []string{"CHAT_MENTION"}},
	}, testLogger(t))

	d.NotifyFunc()(context.Background(), "hi @bot", model.KindChatMention)

	require.Eventually(t, func() bool { return len(rec.all()) == 1 }, 2*time.Second, 10*time.Millisecond)
	body := decodeBody(t, rec.all()[0].Body)
	assert.Equal(t, "CHAT_MENTION", body["kind"])
	assert.Equal(t, "Twitch Chat · bot", body["title"])
	assert.Equal(t, "hi @bot", body["message"])
}

func TestEmptyDispatcher(t *testing.T) {
	d := NewDispatcher("bot", config.NotificationsConfig{}, testLogger(t))
	assert.False(t, d.HasNotifiers())
	assert.NoError(t, d.DispatchSync(context.Background(), model.KindRaid, "x"))
}

func TestWebhookGet(t *testing.T) {
	rec, srv := newRecorder(t, http.StatusOK)
	w := &Webhook{url: srv.URL + "/notify?source=chat", method: "get", httpClient: srv.Client()}

	require.NoError(t, w.Send(context.Background(), model.KindUserBan, "title", "msg"))

	got := rec.all()[0]
	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "chat", got.Query.Get("source"))
	assert.Equal(t, "USER_BAN", got.Query.Get("kind"))
	assert.Equal(t, "msg", got.Query.Get("message"))
}

func TestWebhookUnsupportedMethod(t *testing.T) {
	w := &Webhook{url: "http://example.invalid", method: "PUT", httpClient: http.DefaultClient}
	assert.Error(t, w.Send(context.Background(), model.KindRaid, "t", "m"))
}

func TestTelegramEscapesHTML(t *testing.T) {
	rec, srv := newRecorder(t, http.StatusOK)
	tg := &Telegram{apiBase: srv.URL, token: "123:abc", chatID: "42", httpClient: srv.Client()}

	require.NoError(t, tg.Send(context.Background(), model.KindChatMention, "bot", "<b>hi</b> & bye"))

	got := rec.all()[0]
	assert.Equal(t, "/bot123:abc/sendMessage", got.Path)
	body := decodeBody(t, got.Body)
	assert.Equal(t, "42", body["chat_id"])
	assert.Equal(t, "<b>bot</b> <i>CHAT_MENTION</i>\n&lt;b&gt;hi&lt;/b&gt; &amp; bye", body["text"])
}

func TestDiscordPayload(t *testing.T) {
	rec, srv := newRecorder(t, http.StatusNoContent)
	d := &Discord{webhookURL: srv.URL, httpClient: srv.Client()}

	require.NoError(t, d.Send(context.Background(), model.KindUserBan, "title", "banned"))

	body := decodeBody(t, rec.all()[0].Body)
	embeds, ok := body["embeds"].([]any)
	require.True(t, ok)
	embed := embeds[0].(map[string]any)
	assert.Equal(t, "banned", embed["description"])
	assert.Equal(t, float64(0xE91916), embed["color"])
	assert.Equal(t, "USER_BAN", embed["footer"].(map[string]any)["text"])
}

func TestMatrixUsesBaseURLAndToken(t *testing.T) {
	rec, srv := newRecorder(t, http.StatusOK)
	m := &Matrix{homeserver: srv.URL + "/", accessToken: "tok", roomID: "!room:example.org", httpClient: srv.Client()}

	require.NoError(t, m.Send(context.Background(), model.KindRaid, "bot", "raid"))
	require.NoError(t, m.Send(context.Background(), model.KindRaid, "bot", "raid"))

	reqs := rec.all()
	require.Len(t, reqs, 2)
	assert.Equal(t, http.MethodPut, reqs[0].Method)
	assert.True(t, strings.HasPrefix(reqs[0].Path, "/_matrix/client/v3/rooms/!room:example.org/send/m.room.message/"))
	assert.NotEqual(t, reqs[0].Path, reqs[1].Path)
	assert.Equal(t, "Bearer tok", reqs[0].Header.Get("Authorization"))
	assert.Equal(t, "[RAID] bot: raid", decodeBody(t, reqs[0].Body)["body"])
}

func TestPushoverForm(t *testing.T) {
	rec, srv := newRecorder(t, http.StatusOK)
	p := &Pushover{endpoint: srv.URL, token: "app", userKey: "user", httpClient: srv.Client()}

	require.NoError(t, p.Send(context.Background(), model.KindUserBan, "bot", "banned"))

	form, err := url.ParseQuery(rec.all()[0].Body)
	require.NoError(t, err)
	assert.Equal(t, "app", form.Get("token"))
	assert.Equal(t, "user", form.Get("user"))
	assert.Equal(t, "1", form.Get("priority"))
}

func TestGotifyHeaders(t *testing.T) {
	rec, srv := newRecorder(t, http.StatusOK)
	g := &Gotify{url: srv.URL + "/", token: "key", httpClient: srv.Client()}

	require.NoError(t, g.Send(context.Background(), model.KindRaid, "bot", "raid"))

	got := rec.all()[0]
	assert.Equal(t, "/message", got.Path)
	assert.Equal(t, "key", got.Header.Get("X-Gotify-Key"))
	extras := decodeBody(t, got.Body)["extras"].(map[string]any)
	assert.Equal(t, "RAID", extras["twitchchat::event"].(map[string]any)["kind"])
}
