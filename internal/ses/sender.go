// Package ses sends outbound email through AWS SES v2.
package ses

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	appconfig "github.com/conselheirocristao/newsletter/internal/config"
	"github.com/conselheirocristao/newsletter/internal/domain"
	"github.com/conselheirocristao/newsletter/internal/pkg/logger"
)

// Sender delivers single emails via the SES v2 SendEmail API. It satisfies
// campaign.Sender.
type Sender struct {
	client  *sesv2.Client
	timeout time.Duration
}

// NewSender creates an SES sender. Static credentials are used when
// configured; otherwise the default chain applies (IAM role on ECS).
func NewSender(ctx context.Context, cfg appconfig.SESConfig) (*Sender, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &Sender{
		client:  sesv2.NewFromConfig(awsCfg),
		timeout: cfg.Timeout(),
	}, nil
}

// Send delivers one email. Each call is bounded by the configured per-send
// timeout so one slow delivery cannot stall a whole broadcast.
func (s *Sender) Send(ctx context.Context, msg domain.EmailMessage) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	result, err := s.client.SendEmail(ctx, buildSendInput(msg))
	if err != nil {
		return fmt.Errorf("ses send to %s: %w", logger.RedactEmail(msg.To), err)
	}

	logger.Info("email sent", "to", msg.To, "message_id", aws.ToString(result.MessageId))
	return nil
}

// buildSendInput maps an EmailMessage onto the SES v2 request shape.
func buildSendInput(msg domain.EmailMessage) *sesv2.SendEmailInput {
	return &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(msg.From),
		Destination:      &types.Destination{ToAddresses: []string{msg.To}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(msg.HTMLBody), Charset: aws.String("UTF-8")},
				},
			},
		},
	}
}
