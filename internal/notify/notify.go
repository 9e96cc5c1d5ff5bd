package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"html"
	"net"
	"net/smtp"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/dvasava/portfolio/internal/model"
)

// Notifier tells the site owner about a new contact message.
type Notifier interface {
	Notify(ctx context.Context, msg *model.ContactMessage) error
}

// Noop drops every notification.
type Noop struct{}

func (Noop) Notify(context.Context, *model.ContactMessage) error { return nil }

// SendFunc is smtp.SendMail with a context bounding the whole exchange.
type SendFunc func(ctx context.Context, addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPNotifier mails new contact messages through an SMTP relay.
type SMTPNotifier struct {
	Host string
	Port string
	User string
	Pass string
	To   string

	send   SendFunc
	policy *bluemonday.Policy
}

// NewSMTP builds an SMTPNotifier. When to is empty the owner address is the
// SMTP user.
func NewSMTP(host, port, user, pass, to string) *SMTPNotifier {
	if to == "" {
		to = user
	}
	return &SMTPNotifier{
		Host:   host,
		Port:   port,
		User:   user,
		Pass:   pass,
		To:     to,
		send:   sendMail,
		policy: bluemonday.StrictPolicy(),
	}
}

// Notify sends one plain-text mail with Reply-To set to the sender. The
// relay conversation is abandoned when ctx ends.
func (n *SMTPNotifier) Notify(ctx context.Context, msg *model.ContactMessage) error {
	auth := smtp.PlainAuth("", n.User, n.Pass, n.Host)
	if err := n.send(ctx, net.JoinHostPort(n.Host, n.Port), auth, n.User, []string{n.To}, n.compose(msg)); err != nil {
		return fmt.Errorf("send contact notification: %w", err)
	}
	return nil
}

func (n *SMTPNotifier) compose(msg *model.ContactMessage) []byte {
	name := headerSafe(n.plain(msg.Name))
	replyTo := headerSafe(msg.Email)
	body := n.plain(msg.Message)

	var b strings.Builder
	fmt.Fprintf(&b, "To: %s\r\n", n.To)
	fmt.Fprintf(&b, "From: %s\r\n", n.User)
	fmt.Fprintf(&b, "Reply-To: %s\r\n", replyTo)
	fmt.Fprintf(&b, "Subject: Portfolio Contact: %s\r\n", name)
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString("New contact form submission from your portfolio:\r\n\r\n")
	fmt.Fprintf(&b, "Name: %s\r\n", name)
	fmt.Fprintf(&b, "Email: %s\r\n", replyTo)
	b.WriteString("Message:\r\n")
	b.WriteString(body)
	b.WriteString("\r\n\r\n---\r\nSent from your portfolio contact form\r\n")
	return []byte(b.String())
}

// plain drops any markup and undoes the entity escaping the policy applies.
func (n *SMTPNotifier) plain(s string) string {
	return html.UnescapeString(n.policy.Sanitize(s))
}

// headerSafe strips line breaks so user input cannot inject headers.
func headerSafe(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}

// sendMail follows smtp.SendMail (STARTTLS when offered, AUTH when offered)
// over a connection that is closed as soon as ctx ends.
func sendMail(ctx context.Context, addr string, a smtp.Auth, from string, to []string, msg []byte) error {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}

	err = dialAndSend(ctx, addr, host, a, from, to, msg)
	if ctxErr := ctx.Err(); err != nil && ctxErr != nil {
		return fmt.Errorf("%w: %v", ctxErr, err)
	}
	return err
}

func dialAndSend(ctx context.Context, addr, host string, a smtp.Auth, from string, to []string, msg []byte) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	return converse(conn, host, a, from, to, msg)
}

func converse(conn net.Conn, host string, a smtp.Auth, from string, to []string, msg []byte) error {
	c, err := smtp.NewClient(conn, host)
	if err != nil {
		conn.Close()
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: host}); err != nil {
			return err
		}
	}
	if a != nil {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(a); err != nil {
				return err
			}
		}
	}
	if err := c.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}
