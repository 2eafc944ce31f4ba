package server

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/Guliveer/twitch-chat-go/internal/constants"
	"github.com/Guliveer/twitch-chat-go/internal/eventbus"
	"github.com/Guliveer/twitch-chat-go/internal/metrics"
	"github.com/Guliveer/twitch-chat-go/internal/model"
)

// streamFilter selects the envelopes a client receives. Empty fields match
// everything.
type streamFilter struct {
	kinds   map[model.Kind]bool
	channel string
	account string
}

// parseFilter reads ?kind=A,B&channel=name&account=name. The kind parameter
// may repeat.
func parseFilter(q url.Values) (streamFilter, error) {
	f := streamFilter{
		channel: strings.ToLower(strings.TrimPrefix(q.Get("channel"), "#")),
		account: strings.ToLower(q.Get("account")),
	}
	for _, raw := range q["kind"] {
		for _, name := range strings.Split(raw, ",") {
			if strings.TrimSpace(name) == "" {
				continue
			}
			kind := model.ParseKind(name)
			if kind == "" {
				return streamFilter{}, fmt.Errorf("unknown event kind %q", name)
			}
			if f.kinds == nil {
				f.kinds = make(map[model.Kind]bool)
			}
			f.kinds[kind] = true
		}
	}
	return f, nil
}

func (f streamFilter) match(env eventbus.Envelope) bool {
	if f.kinds != nil && !f.kinds[env.Kind()] {
		return false
	}
	if f.account != "" && !strings.EqualFold(env.Account, f.account) {
		return false
	}
	if f.channel != "" {
		ch := env.Channel()
		if ch == nil || !strings.EqualFold(ch.Name, f.channel) {
			return false
		}
	}
	return true
}

// streamClient is one /events connection. send is never closed; done is
// closed when the client falls behind or the server shuts down.
type streamClient struct {
	filter streamFilter
	send   chan eventbus.Envelope
	done   chan struct{}
	code   websocket.StatusCode
	reason string
	once   sync.Once
}

func (c *streamClient) stop(code websocket.StatusCode, reason string) {
	c.once.Do(func() {
		c.code = code
		c.reason = reason
		close(c.done)
	})
}

// hub fans envelopes out to stream clients without blocking the publisher.
type hub struct {
	mu      sync.Mutex
	clients map[*streamClient]struct{}
	metrics *metrics.Metrics
}

func newHub(m *metrics.Metrics) *hub {
	return &hub{clients: make(map[*streamClient]struct{}), metrics: m}
}

func (h *hub) add(f streamFilter, buffer int) *streamClient {
	c := &streamClient{
		filter: f,
		send:   make(chan eventbus.Envelope, buffer),
		done:   make(chan struct{}),
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	if h.metrics != nil {
		h.metrics.WebSocketClients.Inc()
	}
	return c
}

func (h *hub) remove(c *streamClient) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()

	if ok && h.metrics != nil {
		h.metrics.WebSocketClients.Dec()
	}
}

func (h *hub) size() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// broadcast queues env for every matching client. A client whose queue is
// full is disconnected.
func (h *hub) broadcast(env eventbus.Envelope) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		if !c.filter.match(env) {
			continue
		}
		select {
		case c.send <- env:
		default:
			if h.metrics != nil {
				h.metrics.WebSocketDroppedTotal.Inc()
			}
			c.stop(websocket.StatusPolicyViolation, "client too slow")
		}
	}
}

func (h *hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.stop(websocket.StatusGoingAway, "server shutting down")
	}
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	// Registered before the handshake completes so no event published after
	// the client sees the upgrade is missed.
	client := s.hub.add(filter, s.opts.EventsBuffer)
	defer s.hub.remove(client)

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.opts.OriginPatterns,
	})
	if err != nil {
		s.log.Debug("Event stream upgrade failed", "error", err)
		return
	}
	defer conn.CloseNow() //nolint:errcheck

	ctx := conn.CloseRead(r.Context())
	s.log.Debug("Event stream client connected", "remote", r.RemoteAddr)

	for {
		select {
		case <-ctx.Done():
			return
		case <-client.done:
			conn.Close(client.code, client.reason) //nolint:errcheck
			return
		case env := <-client.send:
			if err := writeEnvelope(ctx, conn, env); err != nil {
				s.log.Debug("Event stream write failed", "error", err)
				return
			}
		}
	}
}

func writeEnvelope(ctx context.Context, conn *websocket.Conn, env eventbus.Envelope) error {
	ctx, cancel := context.WithTimeout(ctx, constants.WebSocketWriteTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, env)
}
