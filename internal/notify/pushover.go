package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Guliveer/twitch-chat-go/internal/model"
)

const pushoverEndpoint = "https://api.pushover.net/1/messages.json"

// pushoverPriority raises moderation events above normal priority.
func pushoverPriority(kind model.Kind) string {
	switch kind {
	case model.KindUserBan, model.KindChatMention, model.KindPrivateMessage:
		return "1"
	default:
		return "0"
	}
}

// Pushover sends notifications via the Pushover API.
type Pushover struct {
	baseNotifier
	endpoint   string
	token      string
	userKey    string
	httpClient *http.Client
}

// Send posts a notification to the Pushover API.
func (p *Pushover) Send(ctx context.Context, kind model.Kind, title, message string) error {
	form := url.Values{
		"token":    {p.token},
		"user":     {p.userKey},
		"title":    {title},
		"message":  {message},
		"priority": {pushoverPriority(kind)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("pushover: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("pushover: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("pushover: unexpected status %d", resp.StatusCode)
	}

	return nil
}
