package mail

import (
	"bytes"
	"fmt"
	"log/slog"
	"time"

	gomail "github.com/go-mail/mail/v2"
)

// Sender delivers the confirmation code email during signup.
type Sender interface {
	SendConfirmationCode(recipient, username, code string) error
}

const confirmationSubject = "Your confirmation code"

func confirmationBody(username, code string) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Hi %s,\n\n", username)
	fmt.Fprintf(&buf, "Use this confirmation code to obtain your access token:\n\n")
	fmt.Fprintf(&buf, "    %s\n\n", code)
	fmt.Fprintf(&buf, "Send it together with your username to /api/v1/auth/token/.\n")
	return buf.String()
}

// SMTPMailer sends mail through an SMTP relay, retrying transient failures.
type SMTPMailer struct {
	dialer  *gomail.Dialer
	sender  string
	retries int
}

func NewSMTPMailer(host string, port int, username, password, sender string, retries int) *SMTPMailer {
	dialer := gomail.NewDialer(host, port, username, password)
	dialer.Timeout = 10 * time.Second
	return &SMTPMailer{dialer: dialer, sender: sender, retries: retries}
}

func (m *SMTPMailer) SendConfirmationCode(recipient, username, code string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("To", recipient)
	msg.SetHeader("From", m.sender)
	msg.SetHeader("Subject", confirmationSubject)
	msg.SetBody("text/plain", confirmationBody(username, code))

	var err error
	for i := 0; i < m.retries; i++ {
		err = m.dialer.DialAndSend(msg)
		if err == nil {
			return nil
		}
		time.Sleep(500 * time.Millisecond)
	}
	return fmt.Errorf("failed to send email to %s: %w", recipient, err)
}

// LogSender writes the code to the log instead of sending mail. Used in
// development when no SMTP relay is configured.
type LogSender struct {
	Log *slog.Logger
}

func (s *LogSender) SendConfirmationCode(recipient, username, code string) error {
	s.Log.Info("confirmation code issued",
		"recipient", recipient,
		"username", username,
		"code", code,
	)
	return nil
}
