package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Guliveer/twitch-chat-go/internal/model"
)

const twitchPurple = 6570404

// kindColors overrides the embed color for kinds that warrant attention.
var kindColors = map[model.Kind]int{
	model.KindUserBan:     0xE91916,
	model.KindUserTimeout: 0xF5A623,
	model.KindRaid:        0x00C8AF,
	model.KindCheer:       0x9146FF,
}

// Discord sends notifications via a Discord webhook.
type Discord struct {
	baseNotifier
	webhookURL string
	httpClient *http.Client
}

// Send posts an embed message to the configured Discord webhook.
func (d *Discord) Send(ctx context.Context, kind model.Kind, title, message string) error {
	color, ok := kindColors[kind]
	if !ok {
		color = twitchPurple
	}

	payload := map[string]any{
		"username": "Twitch Chat Watcher",
		"embeds": []map[string]any{
			{
				"title":       title,
				"description": message,
				"color":       color,
				"footer":      map[string]string{"text": string(kind)},
			},
		},
		"allowed_mentions": map[string]any{"parse": []string{}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("discord: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("discord: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("discord: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("discord: unexpected status %d", resp.StatusCode)
	}

	return nil
}
