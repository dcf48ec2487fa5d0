package mailer

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/qupid-app/qupid-backend/internal/config"
)

const (
	sendGridHost     = "https://api.sendgrid.com"
	sendGridEndpoint = "/v3/mail/send"
)

// Mailer delivers account e-mails.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, link string) error
}

// New returns a SendGrid mailer when an API key is configured and a mailer
// that only logs otherwise.
func New(cfg *config.MailConfig, logger *zap.Logger) Mailer {
	if cfg.SendGridAPIKey == "" {
		logger.Warn("SENDGRID_API_KEY not set, password reset e-mails will only be logged")
		return NewLogMailer(logger)
	}
	return NewSendGridMailer(cfg, sendGridHost, logger)
}

type SendGridMailer struct {
	apiKey string
	host   string
	from   *mail.Email
	logger *zap.Logger
}

func NewSendGridMailer(cfg *config.MailConfig, host string, logger *zap.Logger) *SendGridMailer {
	return &SendGridMailer{
		apiKey: cfg.SendGridAPIKey,
		host:   host,
		from:   mail.NewEmail(cfg.FromName, cfg.FromAddress),
		logger: logger,
	}
}

func (m *SendGridMailer) SendPasswordReset(ctx context.Context, to, link string) error {
	subject, text, html := resetContent(link)
	message := mail.NewSingleEmail(m.from, subject, mail.NewEmail("", to), text, html)

	request := sendgrid.GetRequest(m.apiKey, sendGridEndpoint, m.host)
	request.Method = "POST"
	request.Body = mail.GetRequestBody(message)

	response, err := sendgrid.MakeRequestWithContext(ctx, request)
	if err != nil {
		return fmt.Errorf("failed to send password reset e-mail: %w", err)
	}
	if response.StatusCode >= 300 {
		return fmt.Errorf("sendgrid rejected password reset e-mail: status %d: %s", response.StatusCode, response.Body)
	}

	m.logger.Info("password reset e-mail sent", zap.Int("status", response.StatusCode))
	return nil
}

// LogMailer writes e-mails to the log instead of sending them.
type LogMailer struct {
	logger *zap.Logger
}

func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendPasswordReset(_ context.Context, to, link string) error {
	m.logger.Info("password reset requested", zap.String("to", to), zap.String("link", link))
	return nil
}

func resetContent(link string) (subject, text, html string) {
	subject = "Reset your Qupid password"
	text = fmt.Sprintf("We received a request to reset your Qupid password.\n\n"+
		"Open this link to choose a new one:\n%s\n\n"+
		"If you did not ask for this, you can ignore this e-mail.", link)
	html = fmt.Sprintf("<p>We received a request to reset your Qupid password.</p>"+
		`<p><a href="%s">Choose a new password</a></p>`+
		"<p>If you did not ask for this, you can ignore this e-mail.</p>", link)
	return subject, text, html
}
