package newsletter

import (
	"context"
	"strings"
	"time"

	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/application"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/domain/mail"
	domnewsletter "github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/domain/newsletter"
	domoutbox "github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/domain/outbox"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/observability"
)

const (
	newsletterService = "newsletter-service"
	useCaseSignup     = "newsletter.signup"
	mailPeer          = "mailer"

	MsgInvalidEmail = "Email is invalid!"
	MsgMailFailed   = "Failed to send email."
)

// Flash is a one-shot notice shown on the next rendered page.
type Flash struct {
	Type    string
	Intro   string
	Message string
}

type SignupInput struct {
	Name  string
	Email string
}

type SignupResult struct {
	Notice Flash
}

// SignupUseCase validates the address and sends the welcome mail.
type SignupUseCase struct {
	mailer    mail.Sender
	publisher domoutbox.Publisher
	inst      application.Instruments
}

var _ application.UseCase[SignupInput, *SignupResult] = (*SignupUseCase)(nil)

func NewSignupUseCase(mailer mail.Sender, publisher domoutbox.Publisher, tel observability.Observability) *SignupUseCase {
	return &SignupUseCase{
		mailer:    mailer,
		publisher: publisher,
		inst:      application.NewInstruments(tel, newsletterService),
	}
}

func (uc *SignupUseCase) Execute(ctx context.Context, cmd SignupInput) (_ *SignupResult, err error) {
	ctx, run := uc.inst.Begin(ctx, useCaseSignup, "NewsletterSignup")
	defer func() { run.End(err) }()

	email := strings.TrimSpace(cmd.Email)
	if !mail.ValidAddress(email) {
		run.SetStatus("EMAIL_INVALID")
		return nil, application.Validation(MsgInvalidEmail)
	}

	start := time.Now()
	sendErr := uc.mailer.Send(ctx, mail.Message{
		To:      email,
		Subject: domnewsletter.Subject,
		Text:    domnewsletter.WelcomeBody(strings.TrimSpace(cmd.Name)),
	})
	uc.inst.External(mailPeer, "newsletter_welcome", start, sendErr)
	if sendErr != nil {
		run.SetStatus("MAIL_SEND_FAILED")
		return nil, application.Dependency(MsgMailFailed, sendErr)
	}

	run.Publish(ctx, uc.publisher, domnewsletter.NewSubscribedEvent(email))

	return &SignupResult{
		Notice: Flash{
			Type:    "success",
			Intro:   "Thank you!",
			Message: "You have now been signed up for the newsletter.",
		},
	}, nil
}
