package notifications

import (
	"fmt"
	"net/smtp"

	"github.com/confhub/conference-api/internal/config"
)

// Mailer sends issue-report emails over SMTP.
type Mailer struct {
	host string
	port string
	user string
	pass string
	from string
}

// NewMailer creates a Mailer from configuration.
func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
		user: cfg.SMTPUser,
		pass: cfg.SMTPPass,
		from: cfg.MailFrom,
	}
}

// SendIssueReported emails the admin address about a reported issue.
func (m *Mailer) SendIssueReported(recipient string, msg IssueReported) error {
	subject := fmt.Sprintf("Issue reported: %s", msg.ConferenceTitle)
	body := fmt.Sprintf(
		"An issue has been reported for conference %q (id %d).\n\nReason: %s\n\n%s\n",
		msg.ConferenceTitle, msg.ConferenceID, msg.Reason, msg.Description,
	)

	mail := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		m.from, recipient, subject, body,
	)

	addr := m.host + ":" + m.port
	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.pass, m.host)
	}

	if err := smtp.SendMail(addr, auth, m.from, []string{recipient}, []byte(mail)); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}
