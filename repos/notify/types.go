package notify

import (
	"context"

	"github.com/vmnc/esports-api/pkg/models"
)

// Notifier delivers a registration notice to one external target.
type Notifier interface {
	Name() string
	NotifyRegistration(ctx context.Context, reg models.Registration) error
}

// webhookPayload is the Discord-compatible body posted to the webhook.
type webhookPayload struct {
	Content string         `json:"content"`
	Embeds  []webhookEmbed `json:"embeds,omitempty"`
}

type webhookEmbed struct {
	Title     string         `json:"title"`
	Color     int            `json:"color"`
	Fields    []webhookField `json:"fields"`
	Timestamp string         `json:"timestamp,omitempty"`
}

type webhookField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}
