package notify

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/campus-grievance/grievance-service/internal/config"
)

// Message is a plain-text e-mail.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// NewMailer returns an SMTP mailer, or a log-only mailer when no host is
// configured.
func NewMailer(cfg config.SMTPConfig, logger *zap.Logger) (Mailer, error) {
	if cfg.Host == "" {
		logger.Warn("SMTP_HOST not provided; notifications will only be logged")
		return &LogMailer{logger: logger}, nil
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &SMTPMailer{client: client, from: cfg.From}, nil
}

// SMTPMailer sends through an SMTP relay.
type SMTPMailer struct {
	client *mail.Client
	from   string
}

// Send implements Mailer.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	email, err := buildMsg(m.from, msg)
	if err != nil {
		return err
	}
	if err := m.client.DialAndSendWithContext(ctx, email); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

func buildMsg(from string, msg Message) (*mail.Msg, error) {
	email := mail.NewMsg()
	if err := email.From(from); err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}
	if err := email.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient: %w", err)
	}
	email.Subject(msg.Subject)
	email.SetBodyString(mail.TypeTextPlain, msg.Body)
	return email, nil
}

// LogMailer writes messages to the log instead of sending them.
type LogMailer struct {
	logger *zap.Logger
}

// Send implements Mailer.
func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.logger.Info("mail not sent; no SMTP relay configured",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject))
	return nil
}
