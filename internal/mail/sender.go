package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tazhibayda/account-service/internal/log"
)

const dialTimeout = 10 * time.Second

type Sender struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

func NewSender(host string, port int, user, pass, from string) *Sender {
	if from == "" {
		from = user
	}
	return &Sender{Host: host, Port: port, User: user, Pass: pass, From: from}
}

// SendVerification mails the verification link. Without SMTP credentials the
// sender degrades to logging the link, which is what local runs want.
func (s *Sender) SendVerification(ctx context.Context, to, link string) error {
	if s.Host == "" || s.User == "" {
		log.L().Info("smtp not configured, verification link not mailed",
			zap.String("to", to), zap.String("link", link))
		return nil
	}

	msg := buildMessage(s.From, to, "Verify Your Email", verificationBody(link))
	addr := net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
	auth := smtp.PlainAuth("", s.User, s.Pass, s.Host)

	if s.Port == 465 {
		return s.sendTLS(addr, auth, to, msg)
	}
	return s.sendSTARTTLS(ctx, addr, auth, to, msg)
}

func (s *Sender) sendSTARTTLS(ctx context.Context, addr string, auth smtp.Auth, to, msg string) error {
	d := net.Dialer{Timeout: dialTimeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	c, err := smtp.NewClient(conn, s.Host)
	if err != nil {
		conn.Close()
		return err
	}
	defer c.Close()
	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: s.Host}); err != nil {
			return err
		}
	}
	return submit(c, auth, s.From, to, msg)
}

func (s *Sender) sendTLS(addr string, auth smtp.Auth, to, msg string) error {
	conn, err := tls.DialWithDialer(&net.Dialer{Timeout: dialTimeout}, "tcp", addr,
		&tls.Config{ServerName: s.Host})
	if err != nil {
		return err
	}
	c, err := smtp.NewClient(conn, s.Host)
	if err != nil {
		conn.Close()
		return err
	}
	defer c.Close()
	return submit(c, auth, s.From, to, msg)
}

func submit(c *smtp.Client, auth smtp.Auth, from, to, msg string) error {
	if err := c.Auth(auth); err != nil {
		return err
	}
	if err := c.Mail(from); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}
	wc, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := wc.Write([]byte(msg)); err != nil {
		return err
	}
	if err := wc.Close(); err != nil {
		return err
	}
	return c.Quit()
}

func verificationBody(link string) string {
	return fmt.Sprintf(`<h2>Email Verification</h2>
<p>Please click the link below to verify your email address:</p>
<a href="%s">%s</a>
<p>This link will expire in 24 hours.</p>`, link, link)
}

func buildMessage(from, to, subject, htmlBody string) string {
	var sb strings.Builder
	sb.WriteString("From: " + from + "\r\n")
	sb.WriteString("To: " + to + "\r\n")
	sb.WriteString("Subject: " + subject + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(htmlBody)
	sb.WriteString("\r\n")
	return sb.String()
}
