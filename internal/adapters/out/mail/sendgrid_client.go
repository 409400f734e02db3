package mail

import (
	"context"
	"errors"
	"fmt"
	"html"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	log "github.com/sirupsen/logrus"
)

var (
	ErrNoAPIKey    = errors.New("mail: sendgrid api key is empty")
	ErrNoFrom      = errors.New("mail: from address is empty")
	ErrNoRecipient = errors.New("mail: to address is empty")
)

// EmailClient is the low-level send port. SendGrid is the production
// implementation; tests substitute a recorder.
type EmailClient interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// sendFunc matches (*sendgrid.Client).SendWithContext.
type sendFunc func(ctx context.Context, m *sgmail.SGMailV3) (*rest.Response, error)

type SendGridClient struct {
	apiKey   string
	fromName string
	send     sendFunc
	logger   *log.Entry
}

func NewSendGridClient(apiKey, fromName string) *SendGridClient {
	c := &SendGridClient{
		apiKey:   apiKey,
		fromName: fromName,
		logger:   log.WithField("component", "sendgrid"),
	}
	if apiKey != "" {
		c.send = sendgrid.NewSendClient(apiKey).SendWithContext
	}
	return c
}

func (c *SendGridClient) Send(ctx context.Context, from, to, subject, body string) error {
	if c.apiKey == "" || c.send == nil {
		return ErrNoAPIKey
	}
	if from == "" {
		return ErrNoFrom
	}
	if to == "" {
		return ErrNoRecipient
	}

	msg := sgmail.NewSingleEmail(
		sgmail.NewEmail(c.fromName, from),
		subject,
		sgmail.NewEmail("", to),
		body,
		fmt.Sprintf("<pre>%s</pre>", html.EscapeString(body)),
	)

	resp, err := c.send(ctx, msg)
	if err != nil {
		return fmt.Errorf("mail: sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		c.logger.WithFields(log.Fields{"status": resp.StatusCode, "body": resp.Body}).Warn("sendgrid rejected message")
		return fmt.Errorf("mail: sendgrid status=%d body=%s", resp.StatusCode, resp.Body)
	}

	c.logger.WithFields(log.Fields{"status": resp.StatusCode, "to": to, "subject": subject}).Debug("mail sent")
	return nil
}

var _ EmailClient = (*SendGridClient)(nil)
