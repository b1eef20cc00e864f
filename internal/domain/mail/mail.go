package mail

import (
	"context"
	"regexp"
	"strings"
)

// Message is a transactional e-mail. HTML may be empty for text-only mails.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers messages through a mail provider.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

var addressPattern = regexp.MustCompile(`^(([^<>()\[\]\\.,;:\s@"]+(\.[^<>()\[\]\\.,;:\s@"]+)*)|(".+"))@((\[[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\])|(([a-zA-Z\-0-9]+\.)+[a-zA-Z]{2,}))$`)

// ValidAddress reports whether addr matches the strict address pattern used for
// newsletter signups and checkout receipts.
func ValidAddress(addr string) bool {
	return addr == strings.TrimSpace(addr) && addressPattern.MatchString(addr)
}
