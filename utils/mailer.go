package utils

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

var sesClient *ses.Client

func InitMailer() {
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		log.Fatalf("AWS config load failed: %v", err)
	}
	sesClient = ses.NewFromConfig(cfg)
}

// generic SES sender
func sendEmail(ctx context.Context, to, subject, body string) error {
	if sesClient == nil {
		return fmt.Errorf("mailer not initialized")
	}
	input := &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String(subject),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data: aws.String(body),
				},
			},
		},
		Source: aws.String(os.Getenv("SES_EMAIL")),
	}

	_, err := sesClient.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("email send failed: %w", err)
	}
	return nil
}

// SendCriticalAlertEmail tells the user a food they tried to log tripped a
// critical risk.
func SendCriticalAlertEmail(ctx context.Context, to, foodName string, reasons []string) error {
	subject := fmt.Sprintf("Food safety alert: %s", foodName)
	body := fmt.Sprintf(
		"We flagged %s as unsafe for you:\n\n- %s\n\nPlease review before eating it.",
		foodName, strings.Join(reasons, "\n- "),
	)
	return sendEmail(ctx, to, subject, body)
}
