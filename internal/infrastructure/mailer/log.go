package mailer

import (
	"context"

	dommail "github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/domain/mail"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/observability"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/observability/logctx"
)

// Log writes mails to the logger instead of delivering them. Used when no API key is configured.
type Log struct {
	log observability.Logger
}

func NewLog(logger observability.Logger) *Log {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Log{log: logger.With(observability.F("component", "mailer"), observability.F("provider", "log"))}
}

func (l *Log) Send(ctx context.Context, msg dommail.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	logctx.FromOr(ctx, l.log).Info("mail_logged",
		observability.F("to", msg.To),
		observability.F("subject", msg.Subject),
		observability.F("text_bytes", len(msg.Text)),
		observability.F("html_bytes", len(msg.HTML)),
	)
	return nil
}
