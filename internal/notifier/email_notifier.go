package notifier

import (
	"context"
	"fmt"

	appconfig "storefront-service/config"
	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.uber.org/zap"
)

// EmailNotifier sends order confirmation mails through SES. When the sender
// address is not configured the notifier only logs, so checkout never
// depends on mail delivery.
type EmailNotifier struct {
	cfg    appconfig.NotifyConfig
	client *ses.Client
	logger *zap.Logger
}

// NewEmailNotifier builds the notifier. An unconfigured sender yields a
// logging-only notifier rather than an error.
func NewEmailNotifier(cfg appconfig.NotifyConfig) (*EmailNotifier, error) {
	n := &EmailNotifier{cfg: cfg, logger: util.GetLogger()}
	if cfg.SenderEmail == "" {
		n.logger.Info("Email notifier disabled: no sender configured")
		return n, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.AWSRegion),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config: %w", err)
	}

	n.client = ses.NewFromConfig(awsCfg)
	return n, nil
}

// SendOrderConfirmation mails the customer that the order was received.
func (n *EmailNotifier) SendOrderConfirmation(ctx context.Context, event *models.OrderSubmittedEvent) error {
	if n.client == nil {
		n.logger.Info("Skipping confirmation email (notifier disabled)",
			zap.String("order_id", event.OrderID))
		return nil
	}
	if event.Email == "" {
		return fmt.Errorf("recipient email address is empty")
	}

	subject := fmt.Sprintf("Commande %s reçue — Baha Cuir", event.OrderID)
	bodyText := fmt.Sprintf(
		"Bonjour %s,\n\nVotre commande %s a bien été reçue (total: %d DA).\n"+
			"Nous vous contacterons par téléphone pour confirmer la livraison.\n"+
			"Paiement à la livraison.\n\nBaha Cuir — Atelier de maroquinerie",
		event.CustomerName, event.OrderID, event.Total)

	input := &ses.SendEmailInput{
		Source: aws.String(n.cfg.SenderEmail),
		Destination: &types.Destination{
			ToAddresses: []string{event.Email},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Charset: aws.String("UTF-8"),
				Data:    aws.String(subject),
			},
			Body: &types.Body{
				Text: &types.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(bodyText),
				},
			},
		},
	}

	if _, err := n.client.SendEmail(ctx, input); err != nil {
		n.logger.Error("Failed to send confirmation email",
			zap.String("order_id", event.OrderID),
			zap.Error(err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	n.logger.Info("Confirmation email sent",
		zap.String("order_id", event.OrderID),
		zap.String("to", event.Email))
	return nil
}
