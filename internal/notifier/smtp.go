package notifier

import (
	"context"
	"crypto/tls"
	"fmt"

	"backoffice/internal/models"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// SMTPNotifier mails every notification to the configured admin address.
type SMTPNotifier struct {
	client    *mail.Client
	sender    string
	recipient string
}

func NewSMTPNotifier(config models.MailerConfiguration) *SMTPNotifier {
	options := []mail.Option{mail.WithPort(config.Port)}

	if config.Username != "" {
		options = append(options,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(config.Username),
			mail.WithPassword(config.Password))
	}

	if config.EnableTLS {
		options = append(options, mail.WithTLSPolicy(mail.TLSMandatory))
		if config.SkipVerifyTLS {
			// #nosec G402 -- opt-in for self-signed relays
			options = append(options, mail.WithTLSConfig(&tls.Config{
				InsecureSkipVerify: true,
				ServerName:         config.Host,
			}))
		}
	} else {
		options = append(options, mail.WithTLSPolicy(mail.NoTLS))
	}

	client, err := mail.NewClient(config.Host, options...)
	if err != nil {
		zap.L().Fatal("Failed to create SMTP client", zap.Error(err))
	}

	return &SMTPNotifier{client: client, sender: config.Sender, recipient: config.Recipient}
}

func (s *SMTPNotifier) Notify(ctx context.Context, notification models.Notification) error {
	msg, err := s.message(notification)
	if err != nil {
		return err
	}

	if err = s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}

	zap.L().Info("Notification sent by mail",
		zap.String("to", s.recipient),
		zap.String("title", notification.Title))
	return nil
}

func (s *SMTPNotifier) message(notification models.Notification) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(s.sender); err != nil {
		return nil, fmt.Errorf("invalid sender: %w", err)
	}
	if err := msg.To(s.recipient); err != nil {
		return nil, fmt.Errorf("invalid recipient: %w", err)
	}
	msg.Subject(notification.Title)
	msg.SetDate()
	msg.SetMessageID()
	msg.SetBodyString(mail.TypeTextPlain, notification.Body)
	return msg, nil
}

// RequestPermission grants: configuring a recipient is the admin's consent.
func (s *SMTPNotifier) RequestPermission(_ context.Context) (models.PermissionState, error) {
	return models.PermissionGranted, nil
}

// NoopNotifier drops notifications and always reports denied permission.
type NoopNotifier struct{}

func (NoopNotifier) Notify(context.Context, models.Notification) error { return nil }

func (NoopNotifier) RequestPermission(context.Context) (models.PermissionState, error) {
	return models.PermissionDenied, nil
}
