// Package mailer delivers outgoing mail over SMTP. It sits behind the
// outbox queue: handlers never call it directly.
package mailer

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/locmanager/locmanager/internal/config"
)

type Mailer struct {
	dialer       *gomail.Dialer
	from         string
	baseURL      string
	supportEmail string
}

func New(cfg config.Config) *Mailer {
	return &Mailer{
		dialer:       gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
		from:         cfg.SMTPUser,
		baseURL:      cfg.PublicBaseURL,
		supportEmail: cfg.SupportEmail,
	}
}

// SendVerification mails the verification link for a freshly armed
// token.
func (m *Mailer) SendVerification(to, userID, userType, token string) error {
	link := fmt.Sprintf("%s/verify-email?userId=%s&userType=%s&token=%s",
		m.baseURL, userID, userType, token)

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Vérifiez votre adresse e-mail")
	msg.SetBody("text/html", fmt.Sprintf(`
      <h3>Vérification de l'e-mail</h3>
      <p>Veuillez cliquer sur le lien suivant pour vérifier votre adresse e-mail :</p>
      <a href="%s">%s</a>
      <p>Ce lien expire dans 24 heures.</p>
    `, link, link))

	return m.dialer.DialAndSend(msg)
}

// SendSupport forwards a support-form submission to the support inbox.
// The requester's address goes in the From display name and Reply-To so
// support can answer directly.
func (m *Mailer) SendSupport(fromName, fromEmail, userID, userType, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", msg.FormatAddress(m.from, "LocManager Support Request"))
	msg.SetHeader("Reply-To", fromEmail)
	msg.SetHeader("To", m.supportEmail)
	msg.SetHeader("Subject", "Support Request: "+subject)
	msg.SetBody("text/html", fmt.Sprintf(`
      <h2>New Support Message</h2>
      <p><strong>From:</strong> %s (%s, ID: %s)</p>
      <p><strong>Email:</strong> %s</p>
      <p><strong>Subject:</strong> %s</p>
      <p><strong>Message:</strong></p>
      <p>%s</p>
    `, fromName, userType, userID, fromEmail, subject, body))

	return m.dialer.DialAndSend(msg)
}
