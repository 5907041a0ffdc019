package notify

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/logging"
)

const (
	KindLog    = "log"
	KindResend = "resend"
	KindS3     = "s3"
)

type Config struct {
	Kind         string
	From         string
	ResendAPIKey string
	S3           S3Config
}

// NewSender picks the delivery channel named by cfg.Kind.
func NewSender(ctx context.Context, cfg Config, l logging.Logger) (Sender, error) {
	switch cfg.Kind {
	case "", KindLog:
		return NewLogSender(l), nil
	case KindResend:
		return NewResendSender(cfg.ResendAPIKey, cfg.From)
	case KindS3:
		s3cfg := cfg.S3
		if s3cfg.From == "" {
			s3cfg.From = cfg.From
		}
		return NewS3MailDrop(ctx, s3cfg)
	default:
		return nil, fmt.Errorf("unknown notifier %q", cfg.Kind)
	}
}
