package notifications

import (
	"fmt"
	"net/smtp"
	"strings"

	"vitalwatch-service/internal/app/contracts"
	"vitalwatch-service/internal/app/drivers/mailer"
	"vitalwatch-service/internal/pkg/constvars"
	"vitalwatch-service/internal/pkg/exceptions"
)

type SMTPEmailSender struct {
	client *mailer.SMTPClient
}

func NewSMTPEmailSender(client *mailer.SMTPClient) contracts.EmailSender {
	return &SMTPEmailSender{client: client}
}

func (s *SMTPEmailSender) SendHTMLEmail(to, subject, htmlBody string, highPriority bool) error {
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", s.client.EmailSender)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: %s\r\n", constvars.MIMETextHTMLCharsetUTF8)
	if highPriority {
		msg.WriteString("X-Priority: 1\r\n")
		msg.WriteString("Importance: high\r\n")
	}
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	addr := fmt.Sprintf("%s:%d", s.client.Host, s.client.Port)
	if err := smtp.SendMail(addr, s.client.Auth, s.client.EmailSender, []string{to}, []byte(msg.String())); err != nil {
		return exceptions.ErrSMTPSendEmail(err, s.client.Host)
	}
	return nil
}
