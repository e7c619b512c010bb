package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	resend "github.com/resend/resend-go/v2"

	"github.com/vmnc/esports-api/pkg/models"
)

// emailSender is the part of the resend client we use.
type emailSender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// Email mails organizers about new registrations through Resend.
type Email struct {
	sender emailSender
	from   string
	to     []string
}

// NewEmail returns nil unless both an API key and a recipient are set.
func NewEmail(apiKey, from string, to []string) *Email {
	if apiKey == "" || len(to) == 0 {
		return nil
	}
	if from == "" {
		from = "onboarding@resend.dev"
	}
	return &Email{sender: resend.NewClient(apiKey).Emails, from: from, to: to}
}

func (e *Email) Name() string { return "email" }

func (e *Email) NotifyRegistration(ctx context.Context, reg models.Registration) error {
	params := &resend.SendEmailRequest{
		From:    e.from,
		To:      e.to,
		Subject: fmt.Sprintf("New registration: %s", reg.TeamName),
		Html:    getEmailTemplate(reg),
	}
	if reg.ContactEmail != "" {
		params.ReplyTo = reg.ContactEmail
	}

	if _, err := e.sender.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("send registration mail: %w", err)
	}
	return nil
}

func getEmailTemplate(reg models.Registration) string {
	title := reg.TournamentTitle
	if title == "" {
		title = reg.TournamentID
	}
	members := make([]string, len(reg.TeamMembers))
	for i, m := range reg.TeamMembers {
		members[i] = "<li>" + html.EscapeString(m) + "</li>"
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <style>
        body {
            font-family: Arial, sans-serif;
            background-color: #f4f4f4;
            padding: 20px;
        }
        .container {
            background-color: #ffffff;
            max-width: 600px;
            margin: 0 auto;
            padding: 20px;
        }
    </style>
</head>
<body>
    <div class="container">
        <h2>%s</h2>
        <p><strong>%s</strong> registered. Captain: %s. Region: %s.</p>
        <ul>%s</ul>
        <p>Contact: %s</p>
    </div>
</body>
</html>`,
		html.EscapeString(title),
		html.EscapeString(reg.TeamName),
		html.EscapeString(orDash(reg.CaptainDiscord)),
		html.EscapeString(orDash(reg.Region)),
		strings.Join(members, ""),
		html.EscapeString(orDash(reg.ContactEmail)),
	)
}
