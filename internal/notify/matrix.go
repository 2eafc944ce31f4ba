package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/Guliveer/twitch-chat-go/internal/model"
)

// Matrix sends notifications via the Matrix client-server API.
type Matrix struct {
	baseNotifier
	// homeserver is a host name or a base URL with scheme.
	homeserver  string
	accessToken string
	roomID      string
	httpClient  *http.Client
}

// Send puts a message into the configured Matrix room. Each send uses a
// fresh transaction id so retries by the server are idempotent.
func (m *Matrix) Send(ctx context.Context, kind model.Kind, title, message string) error {
	base := strings.TrimRight(m.homeserver, "/")
	if !strings.Contains(base, "://") {
		base = "https://" + base
	}

	apiURL := fmt.Sprintf("%s/_matrix/client/v3/rooms/%s/send/m.room.message/%s",
		base, url.PathEscape(m.roomID), uuid.NewString())

	payload := map[string]string{
		"msgtype": "m.notice",
		"body":    fmt.Sprintf("[%s] %s: %s", kind, title, message),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("matrix: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("matrix: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.accessToken)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("matrix: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("matrix: unexpected status %d", resp.StatusCode)
	}

	return nil
}
