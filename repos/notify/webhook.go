package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/vmnc/esports-api/pkg/models"
)

// Webhook posts registrations to a Discord-style webhook URL.
type Webhook struct {
	url    string
	client *http.Client
}

// NewWebhook returns nil when url is empty so callers can skip it.
func NewWebhook(url string, client *http.Client) *Webhook {
	if strings.TrimSpace(url) == "" {
		return nil
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Webhook{url: url, client: client}
}

func (w *Webhook) Name() string { return "webhook" }

func (w *Webhook) NotifyRegistration(ctx context.Context, reg models.Registration) error {
	body, err := json.Marshal(registrationPayload(reg))
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook responded %s", resp.Status)
	}
	return nil
}

func registrationPayload(reg models.Registration) webhookPayload {
	members := strings.Join(reg.TeamMembers, ", ")
	if members == "" {
		members = "-"
	}
	title := reg.TournamentTitle
	if title == "" {
		title = reg.TournamentID
	}
	return webhookPayload{
		Content: fmt.Sprintf("New tournament registration: **%s**", reg.TeamName),
		Embeds: []webhookEmbed{{
			Title: title,
			Color: 0x5865F2,
			Fields: []webhookField{
				{Name: "Team", Value: orDash(reg.TeamName), Inline: true},
				{Name: "Captain", Value: orDash(reg.CaptainDiscord), Inline: true},
				{Name: "Region", Value: orDash(reg.Region), Inline: true},
				{Name: "Members", Value: members},
				{Name: "Contact", Value: orDash(reg.ContactEmail), Inline: true},
				{Name: "Experience", Value: orDash(reg.Experience), Inline: true},
			},
			Timestamp: reg.RegisteredAt,
		}},
	}
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
