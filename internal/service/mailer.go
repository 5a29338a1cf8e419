package service

import (
	"fmt"
	"net"
	"net/smtp"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/plateful/plateful-backend/config"
	"github.com/plateful/plateful-backend/internal/models"
)

// smtpDialTimeout bounds the connection to the mail relay. The service
// must not hang a request on an unresponsive collaborator.
const smtpDialTimeout = 10 * time.Second

type Mailer struct {
	smtpHost     string
	smtpPort     string
	smtpUsername string
	smtpPassword string
	fromEmail    string
	fromName     string
}

func NewMailer(cfg *config.Config) IMailer {
	return &Mailer{
		smtpHost:     cfg.SMTPHost,
		smtpPort:     cfg.SMTPPort,
		smtpUsername: cfg.SMTPUsername,
		smtpPassword: cfg.SMTPPassword,
		fromEmail:    cfg.FromEmail,
		fromName:     cfg.FromName,
	}
}

func (m *Mailer) SendPasswordResetEmail(user *models.User, code string) error {
	caser := cases.Title(language.English)
	subject := fmt.Sprintf("[Plateful] %s", caser.String("your password reset code"))
	body := fmt.Sprintf(
		"Hi %s,\r\n\r\n"+
			"Your password reset code is: %s\r\n\r\n"+
			"The code expires in one hour and can be used once. "+
			"If you did not request a reset, you can ignore this email.\r\n",
		user.Name, code)
	return m.SendEmail(user.Email, subject, body)
}

func (m *Mailer) SendWelcomeEmail(user *models.User) error {
	subject := "Welcome to Plateful!"
	body := fmt.Sprintf(
		"Hi %s,\r\n\r\n"+
			"Welcome to Plateful. Publish your first recipe, build a meal plan, "+
			"and see what everyone else is cooking.\r\n",
		user.Name)
	return m.SendEmail(user.Email, subject, body)
}

func (m *Mailer) SendEmail(to, subject, body string) error {
	// If SMTP is not configured, log the email instead
	if m.smtpHost == "" || m.smtpPort == "" {
		fmt.Printf("SMTP not configured, logging email:\n")
		fmt.Printf("To: %s\n", to)
		fmt.Printf("Subject: %s\n", subject)
		fmt.Printf("Body:\n%s\n", body)
		fmt.Printf("--- End Email ---\n")
		return nil
	}

	addr := fmt.Sprintf("%s:%s", m.smtpHost, m.smtpPort)

	// Probe the relay with a bounded dial before handing off to
	// smtp.SendMail, which dials without a timeout.
	conn, err := net.DialTimeout("tcp", addr, smtpDialTimeout)
	if err != nil {
		return fmt.Errorf("mail relay unreachable: %w", err)
	}
	_ = conn.Close()

	auth := smtp.PlainAuth("", m.smtpUsername, m.smtpPassword, m.smtpHost)

	from := fmt.Sprintf("%s <%s>", m.fromName, m.fromEmail)
	msg := []byte(fmt.Sprintf("To: %s\r\n"+
		"From: %s\r\n"+
		"Subject: %s\r\n"+
		"Content-Type: text/plain; charset=UTF-8\r\n"+
		"\r\n"+
		"%s\r\n", to, from, subject, body))

	if err := smtp.SendMail(addr, auth, m.fromEmail, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
