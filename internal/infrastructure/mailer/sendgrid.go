package mailer

import (
	"context"
	"errors"
	"fmt"

	dommail "github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/domain/mail"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/observability"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const defaultFromName = "NinjaCoders"

// sendClient is the subset of *sendgrid.Client the sender uses.
type sendClient interface {
	SendWithContext(ctx context.Context, email *sgmail.SGMailV3) (*rest.Response, error)
}

// SendGrid delivers mail through the SendGrid v3 API.
type SendGrid struct {
	client   sendClient
	from     string
	fromName string
	log      observability.Logger
}

// NewSendGrid builds a sender for apiKey. from is the envelope sender address.
func NewSendGrid(apiKey, from string, logger observability.Logger) (*SendGrid, error) {
	if apiKey == "" {
		return nil, errors.New("sendgrid api key is empty")
	}
	return newSendGrid(sendgrid.NewSendClient(apiKey), from, logger)
}

func newSendGrid(client sendClient, from string, logger observability.Logger) (*SendGrid, error) {
	if from == "" {
		return nil, errors.New("from address is empty")
	}
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &SendGrid{
		client:   client,
		from:     from,
		fromName: defaultFromName,
		log:      logger.With(observability.F("component", "mailer"), observability.F("provider", "sendgrid")),
	}, nil
}

func (s *SendGrid) Send(ctx context.Context, msg dommail.Message) error {
	if msg.To == "" {
		return errors.New("to address is empty")
	}

	var contents []*sgmail.Content
	if msg.Text != "" {
		contents = append(contents, sgmail.NewContent("text/plain", msg.Text))
	}
	if msg.HTML != "" {
		contents = append(contents, sgmail.NewContent("text/html", msg.HTML))
	}
	if len(contents) == 0 {
		return errors.New("mail body is empty")
	}
	message := sgmail.NewV3MailInit(
		sgmail.NewEmail(s.fromName, s.from),
		msg.Subject,
		sgmail.NewEmail("", msg.To),
		contents...,
	)

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send error: %w", err)
	}
	if response.StatusCode >= 400 {
		s.log.Warn("mail_rejected",
			observability.F("status", response.StatusCode),
			observability.F("body", response.Body),
		)
		return fmt.Errorf("sendgrid send failed: status=%d, body=%s", response.StatusCode, response.Body)
	}

	s.log.Debug("mail_sent",
		observability.F("status", response.StatusCode),
		observability.F("subject", msg.Subject),
	)
	return nil
}
