package newsletter

import (
	"context"
	"errors"
	"testing"

	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/application"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/domain/mail"
	domoutbox "github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/domain/outbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	sent []mail.Message
	err  error
}

func (m *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type fakePublisher struct{ events []domoutbox.Event }

func (p *fakePublisher) Publish(_ context.Context, e domoutbox.Event) error {
	p.events = append(p.events, e)
	return nil
}

func TestSignupSendsWelcomeMail(t *testing.T) {
	mailer := &fakeMailer{}
	pub := &fakePublisher{}
	uc := NewSignupUseCase(mailer, pub, nil)

	res, err := uc.Execute(context.Background(), SignupInput{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "success", res.Notice.Type)
	assert.Equal(t, "Thank you!", res.Notice.Intro)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "ada@example.com", mailer.sent[0].To)
	assert.Equal(t, "NinjaCoders Newsletter Subscription", mailer.sent[0].Subject)
	assert.Contains(t, mailer.sent[0].Text, "Hi Ada, \nThank you for signing up")

	require.Len(t, pub.events, 1)
	assert.Equal(t, "newsletter.subscribed", pub.events[0].EventName())
}

func TestSignupRejectsInvalidEmail(t *testing.T) {
	mailer := &fakeMailer{}
	uc := NewSignupUseCase(mailer, nil, nil)

	res, err := uc.Execute(context.Background(), SignupInput{Name: "Ada", Email: "not-an-email"})
	assert.Nil(t, res)
	assert.ErrorIs(t, err, application.ErrValidation)
	assert.Equal(t, "Email is invalid!", err.Error())
	assert.Empty(t, mailer.sent)
}

func TestSignupMailFailure(t *testing.T) {
	mailer := &fakeMailer{err: errors.New("provider down")}
	pub := &fakePublisher{}
	uc := NewSignupUseCase(mailer, pub, nil)

	res, err := uc.Execute(context.Background(), SignupInput{Name: "Ada", Email: "ada@example.com"})
	assert.Nil(t, res)
	assert.ErrorIs(t, err, application.ErrDependency)
	assert.Equal(t, "Failed to send email.", err.Error())
	assert.Empty(t, pub.events)
}
