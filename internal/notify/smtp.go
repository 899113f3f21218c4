package notify

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/accord-hospitals/interview-portal/backend/internal/config"
	"github.com/accord-hospitals/interview-portal/backend/internal/domain"
)

// SMTPTransport sends mail directly. Without an SMTP password outside
// production it only logs what it would have sent.
type SMTPTransport struct {
	logger *slog.Logger
	client *mail.Client
	from   string
	dryRun bool
}

func NewSMTPTransport(cfg *config.Config, logger *slog.Logger) (*SMTPTransport, error) {
	t := &SMTPTransport{
		logger: logger,
		from:   cfg.Sender(),
		dryRun: cfg.Email.SMTP.Password == "" && !cfg.IsProduction(),
	}
	if t.dryRun {
		logger.Warn("EMAIL_SMTP_PASSWORD not set, mail will be logged instead of sent")
		return t, nil
	}

	opts := []mail.Option{
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithPort(cfg.Email.SMTP.Port),
		mail.WithUsername(cfg.Email.SMTP.Username),
		mail.WithPassword(cfg.Email.SMTP.Password),
		mail.WithTimeout(time.Duration(cfg.Email.SMTP.DialTimeout) * time.Second),
	}
	if cfg.Email.SMTP.SSL {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPortPolicy(mail.TLSMandatory))
	}

	client, err := mail.NewClient(cfg.Email.SMTP.Host, opts...)
	if err != nil {
		return nil, err
	}
	t.client = client
	return t, nil
}

func (t *SMTPTransport) Deliver(ctx context.Context, msg domain.MailMessage) error {
	if t.dryRun {
		t.logger.Info("mail skipped",
			slog.String("to", strings.Join(msg.To, ",")),
			slog.String("cc", strings.Join(msg.Cc, ",")),
			slog.String("subject", msg.Subject),
		)
		return nil
	}

	m := mail.NewMsg()
	if err := m.From(t.from); err != nil {
		return err
	}
	if err := m.To(msg.To...); err != nil {
		return err
	}
	if len(msg.Cc) > 0 {
		if err := m.Cc(msg.Cc...); err != nil {
			return err
		}
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextHTML, msg.HTML)

	if err := t.client.DialAndSendWithContext(ctx, m); err != nil {
		return err
	}

	t.logger.Info("mail sent", slog.String("to", strings.Join(msg.To, ",")), slog.String("subject", msg.Subject))
	return nil
}

func (t *SMTPTransport) Close() error {
	if t.client == nil {
		return nil
	}
	return t.client.Close()
}
