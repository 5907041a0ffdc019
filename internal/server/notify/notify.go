// Package notify delivers activation links to account owners.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/dmitrijs2005/gophauth/internal/logging"
)

// Sender delivers an activation link. Callers treat a returned error as a
// warning; registration never fails because of it.
type Sender interface {
	SendActivation(ctx context.Context, email, activationURL string) error
}

// Message is a rendered activation email.
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
}

const activationSubject = "Account activation"

var activationTemplate = template.Must(template.New("activation").Parse(`<div>
  <h1>Activate your account</h1>
  <p>Follow the link to confirm {{.Email}}:</p>
  <a href="{{.URL}}">{{.URL}}</a>
</div>`))

// RenderActivation builds the activation email for email.
func RenderActivation(from, email, activationURL string) (*Message, error) {
	var buf bytes.Buffer
	err := activationTemplate.Execute(&buf, struct {
		Email string
		URL   string
	}{Email: email, URL: activationURL})
	if err != nil {
		return nil, fmt.Errorf("render activation email: %w", err)
	}
	return &Message{From: from, To: email, Subject: activationSubject, HTML: buf.String()}, nil
}

// LogSender only logs the link. Meant for development setups without mail.
type LogSender struct {
	logger logging.Logger
}

func NewLogSender(l logging.Logger) *LogSender {
	return &LogSender{logger: l.With("module", "notify")}
}

func (s *LogSender) SendActivation(ctx context.Context, email, activationURL string) error {
	s.logger.Info(ctx, "activation link", "email", email, "url", activationURL)
	return nil
}
