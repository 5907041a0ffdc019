package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// objectPutter is the part of *s3.Client the mail drop needs.
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config describes the mail drop bucket. Credentials are static, as for
// MinIO-style deployments.
type S3Config struct {
	User         string
	Password     string
	Bucket       string
	Region       string
	BaseEndpoint string
	Prefix       string
	From         string
}

// S3MailDrop writes each activation email as an .eml object; a separate
// relay picks the objects up and delivers them.
type S3MailDrop struct {
	client objectPutter
	bucket string
	prefix string
	from   string
	now    func() time.Time
}

func NewS3MailDrop(ctx context.Context, c S3Config) (*S3MailDrop, error) {
	if c.Bucket == "" {
		return nil, errors.New("mail drop bucket is required")
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(c.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(c.User, c.Password, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if c.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(c.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return newS3MailDrop(client, c), nil
}

func newS3MailDrop(client objectPutter, c S3Config) *S3MailDrop {
	return &S3MailDrop{
		client: client,
		bucket: c.Bucket,
		prefix: c.Prefix,
		from:   c.From,
		now:    time.Now,
	}
}

func (d *S3MailDrop) SendActivation(ctx context.Context, email, activationURL string) error {
	msg, err := RenderActivation(d.from, email, activationURL)
	if err != nil {
		return err
	}

	now := d.now().UTC()
	key := path.Join(d.prefix, now.Format("2006/01/02"), uuid.NewString()+".eml")

	_, err = d.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(d.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(encodeMessage(msg, now)),
		ContentType: aws.String("message/rfc822"),
	})
	if err != nil {
		return fmt.Errorf("put mail object: %w", err)
	}
	return nil
}

func encodeMessage(m *Message, at time.Time) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.From)
	fmt.Fprintf(&b, "To: %s\r\n", m.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", m.Subject)
	fmt.Fprintf(&b, "Date: %s\r\n", at.Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	b.WriteString(m.HTML)
	b.WriteString("\r\n")
	return []byte(b.String())
}
