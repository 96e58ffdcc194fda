// Package email sends clinic notifications through Resend.
package email

import (
	"fmt"

	"github.com/deppfellow/petclinic/internal/config"
	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

// Sender is the part of the Resend SDK the client uses.
type Sender interface {
	Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// Client renders templates and sends them through Resend.
type Client struct {
	sender Sender
	from   string
	logger *zerolog.Logger
}

// NewClient returns a client that only logs outgoing mail when no Resend
// API key is configured.
func NewClient(cfg *config.Config, logger *zerolog.Logger) *Client {
	c := &Client{
		from:   fmt.Sprintf("%s <%s>", "Petclinic", cfg.Integration.EmailFrom),
		logger: logger,
	}
	if cfg.Integration.ResendAPIKey != "" {
		c.sender = resend.NewClient(cfg.Integration.ResendAPIKey).Emails
	}
	return c
}

// NewClientWithSender builds a Client on an explicit Sender.
func NewClientWithSender(sender Sender, from string, logger *zerolog.Logger) *Client {
	return &Client{sender: sender, from: from, logger: logger}
}

// SendEmail renders templateName with data and sends it to to. Without a
// sender the message is only logged.
func (c *Client) SendEmail(to, subject string, templateName Template, data any) error {
	html, err := Render(templateName, data)
	if err != nil {
		return err
	}

	if c.sender == nil {
		c.logger.Info().
			Str("to", to).
			Str("subject", subject).
			Str("template", string(templateName)).
			Msg("email delivery disabled, skipping send")
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}

	if _, err := c.sender.Send(params); err != nil {
		return errors.Wrap(err, "failed to send email")
	}

	return nil
}
