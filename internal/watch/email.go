package watch

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"
)

type SmtpConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	From     string `json:"from"`
	To       string `json:"to"`
}

func (c SmtpConfig) Enabled() bool {
	return c.Host != "" && c.To != ""
}

// EmailNotifier mails every batch of openings as a single message.
type EmailNotifier struct {
	config SmtpConfig
}

func NewEmailNotifier(config SmtpConfig) EmailNotifier {
	if config.From == "" {
		config.From = config.Username
	}
	if config.Port == 0 {
		config.Port = 587
	}
	return EmailNotifier{config: config}
}

func formatMessage(openings []Opening) (subject string, body string) {
	subject = fmt.Sprintf("[webweg] %d section(s) opened", len(openings))
	if len(openings) == 1 {
		subject = fmt.Sprintf(
			"[webweg] %s %s opened",
			openings[0].Section.SubjectCourseId, openings[0].Section.SectionCode,
		)
	}

	var out strings.Builder
	for _, o := range openings {
		out.WriteString(o.String())
		out.WriteString("\n")
	}
	return subject, out.String()
}

func (n EmailNotifier) Notify(ctx context.Context, openings []Opening) error {
	_, span := tracer.Start(ctx, "EmailNotifier:Notify")
	defer span.End()

	mail := email.NewEmail()
	mail.From = fmt.Sprintf("webweg <%s>", n.config.From)
	mail.To = []string{n.config.To}
	subject, body := formatMessage(openings)
	mail.Subject = subject
	mail.Text = []byte(body)

	addr := fmt.Sprintf("%s:%d", n.config.Host, n.config.Port)
	err := mail.Send(addr, smtp.PlainAuth("", n.config.Username, n.config.Password, n.config.Host))
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = mail.Send(addr, nil)
	}
	return err
}
