// Package mail sends email over SMTP with a small fluent builder. The
// order confirmation job is the main caller:
//
//	mail.To("buyer@example.com").
//	    Subject("Your order is confirmed").
//	    Body("<h1>Thanks!</h1>").
//	    Send()
package mail

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rishavanand/bazario/config"
)

// SMTP is one server's connection settings.
type SMTP struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	FromName string
}

func smtpFromEnv() SMTP {
	return SMTP{
		Host:     config.Get("MAIL_HOST", "smtp.mailtrap.io"),
		Port:     config.Get("MAIL_PORT", "587"),
		Username: config.Get("MAIL_USERNAME", ""),
		Password: config.Get("MAIL_PASSWORD", ""),
		From:     config.Get("MAIL_FROM", "orders@bazario.app"),
		FromName: config.Get("MAIL_FROM_NAME", "Bazario"),
	}
}

// Message accumulates an email before Send.
type Message struct {
	to      []string
	subject string
	body    string
	html    bool
	server  SMTP
}

// To starts a message to the given recipients using the env SMTP settings.
func To(addresses ...string) *Message {
	return &Message{to: addresses, html: true, server: smtpFromEnv()}
}

// Subject sets the subject line.
func (m *Message) Subject(s string) *Message {
	m.subject = s
	return m
}

// Body sets an HTML body.
func (m *Message) Body(html string) *Message {
	m.body, m.html = html, true
	return m
}

// Text sets a plain-text body.
func (m *Message) Text(text string) *Message {
	m.body, m.html = text, false
	return m
}

// UseConfig swaps the SMTP settings for this one message.
func (m *Message) UseConfig(s SMTP) *Message {
	m.server = s
	return m
}

// Send delivers the message. Port 465 gets implicit TLS; 587 and 25 go
// through net/smtp's STARTTLS path.
func (m *Message) Send() error {
	srv := m.server
	if srv.Username == "" {
		return fmt.Errorf("mail: MAIL_USERNAME not configured")
	}

	raw := m.render(fmt.Sprintf("%s <%s>", srv.FromName, srv.From))
	addr := srv.Host + ":" + srv.Port
	auth := smtp.PlainAuth("", srv.Username, srv.Password, srv.Host)

	if srv.Port == "465" {
		return m.sendImplicitTLS(addr, auth, raw)
	}
	return smtp.SendMail(addr, auth, srv.From, m.to, raw)
}

func (m *Message) sendImplicitTLS(addr string, auth smtp.Auth, raw []byte) error {
	srv := m.server
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: srv.Host})
	if err != nil {
		return fmt.Errorf("mail: tls dial: %w", err)
	}
	client, err := smtp.NewClient(conn, srv.Host)
	if err != nil {
		return err
	}
	defer client.Quit()

	if err := client.Auth(auth); err != nil {
		return err
	}
	if err := client.Mail(srv.From); err != nil {
		return err
	}
	for _, rcpt := range m.to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}
	wr, err := client.Data()
	if err != nil {
		return err
	}
	defer wr.Close()
	_, err = wr.Write(raw)
	return err
}

// render produces the full RFC 822 message.
func (m *Message) render(from string) []byte {
	ctype := "text/plain"
	if m.html {
		ctype = "text/html"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "From: %s\r\n", from)
	fmt.Fprintf(&sb, "To: %s\r\n", strings.Join(m.to, ", "))
	fmt.Fprintf(&sb, "Subject: %s\r\n", m.subject)
	sb.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&sb, "Content-Type: %s; charset=\"UTF-8\"\r\n\r\n", ctype)
	sb.WriteString(m.body)
	return []byte(sb.String())
}
