package email

import (
	"context"
	"fmt"
	"regexp"
)

// Sender delivers transactional email. Production uses Postmark; tests and
// local development use the log sender.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Message is one outbound transactional email.
type Message struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	BodyHTML string `json:"body_html"`
	Tag      string `json:"tag,omitempty"`
}

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Validate checks the message before handing it to a provider.
func (m Message) Validate() error {
	if !emailRegex.MatchString(m.To) {
		return fmt.Errorf("%w: recipient %q", ErrInvalidMessage, m.To)
	}
	if m.Subject == "" {
		return fmt.Errorf("%w: subject is required", ErrInvalidMessage)
	}
	if m.BodyHTML == "" {
		return fmt.Errorf("%w: body is required", ErrInvalidMessage)
	}
	return nil
}
