package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// emailClient is the part of resend.EmailsSvc we use.
type emailClient interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type ResendSender struct {
	emails emailClient
	from   string
}

func NewResendSender(apiKey, from string) (*ResendSender, error) {
	if apiKey == "" {
		return nil, errors.New("resend API key is required")
	}
	if from == "" {
		return nil, errors.New("from address is required")
	}
	return &ResendSender{emails: resend.NewClient(apiKey).Emails, from: from}, nil
}

func (s *ResendSender) SendActivation(ctx context.Context, email, activationURL string) error {
	msg, err := RenderActivation(s.from, email, activationURL)
	if err != nil {
		return err
	}

	_, err = s.emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    msg.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("send activation email: %w", err)
	}
	return nil
}
