package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

// SMTPConfig holds configuration for the SMTP server
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer sends HTML email through gomail. Without a configured host it only logs.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
	logger zerolog.Logger
}

// NewMailer creates a Mailer
func NewMailer(cfg SMTPConfig, logger zerolog.Logger) *Mailer {
	m := &Mailer{from: cfg.From, logger: logger}
	if cfg.Host != "" {
		m.dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}
	return m
}

// Enabled reports whether SMTP is configured
func (m *Mailer) Enabled() bool {
	return m.dialer != nil
}

// Send delivers one HTML message
func (m *Mailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if !m.Enabled() {
		m.logger.Warn().Str("to", to).Str("subject", subject).Msg("SMTP not configured - email not sent")
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.logger.Error().Err(err).Str("to", to).Msg("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.logger.Info().Str("to", to).Str("subject", subject).Msg("Email sent")
	return nil
}

var decisionTemplate = template.Must(template.New("decision").Parse(`<html>
<body>
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
		<h2 style="color: #333;">{{if .Approved}}Your institution is verified{{else}}Your verification was not approved{{end}}</h2>
		<p>Hello {{.Name}},</p>
		{{if .Approved}}
		<p>{{.Institution}} is now verified on TutorHub. Your profile and courses are visible to students.</p>
		{{else}}
		<p>We could not verify {{.Institution}} at this time.</p>
		{{if .Notes}}<p>Reviewer notes: {{.Notes}}</p>{{end}}
		<p>You can update your profile and submit it again from the Settings tab.</p>
		{{end}}
		<p>Best regards,<br>The TutorHub Team</p>
	</div>
</body>
</html>`))

// InstitutionDecision renders the email sent when an institution submission is decided
func InstitutionDecision(name, institution string, approved bool, notes string) (subject, body string, err error) {
	subject = "Your TutorHub verification was not approved"
	if approved {
		subject = "Your institution is verified on TutorHub"
	}

	var buf bytes.Buffer
	err = decisionTemplate.Execute(&buf, struct {
		Name        string
		Institution string
		Approved    bool
		Notes       string
	}{name, institution, approved, notes})
	if err != nil {
		return "", "", fmt.Errorf("failed to render decision email: %w", err)
	}
	return subject, buf.String(), nil
}
