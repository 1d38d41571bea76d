package identity

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"strings"
	"time"
)

// Mailer performs best-effort notification delivery. Failures are surfaced
// to callers but registration flows treat them as non-fatal.
type Mailer interface {
	Send(to, subject, body string) error
	SendActivationEmail(to, activationKey string, site Site) error
}

type noopMailer struct{}

func (noopMailer) Send(string, string, string) error              { return nil }
func (noopMailer) SendActivationEmail(string, string, Site) error { return nil }

// SMTPConfig holds transport settings for SMTPMailer.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	// UseSSL selects an implicit-TLS connection (port 465 style);
	// otherwise STARTTLS is attempted.
	UseSSL  bool
	Timeout time.Duration
	// ActivationSubject overrides the default activation email subject.
	ActivationSubject string
}

// Addr returns host:port.
func (c SMTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SMTPMailer delivers notifications over SMTP with inline HTML templates.
type SMTPMailer struct {
	cfg       SMTPConfig
	templates *template.Template
}

var _ Mailer = (*SMTPMailer)(nil)

// NewSMTPMailer parses the embedded templates and returns a ready mailer.
func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	tmpl, err := template.New("emails").Parse(emailTemplates)
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &SMTPMailer{
		cfg:       cfg,
		templates: tmpl,
	}, nil
}

// SendActivationEmail composes the activation notification for site and
// delivers it to the registrant.
func (m *SMTPMailer) SendActivationEmail(to, activationKey string, site Site) error {
	data := ActivationEmailData{
		SiteName:      site.GetName(),
		ActivationKey: activationKey,
		ActivationURL: ActivationURL(site, activationKey),
	}

	body, err := m.renderTemplate("activation", data)
	if err != nil {
		return fmt.Errorf("failed to render activation template: %w", err)
	}

	subject := m.cfg.ActivationSubject
	if subject == "" {
		subject = fmt.Sprintf("Activate your account on %s", site.GetName())
	}

	return m.Send(to, subject, body)
}

// ActivationURL builds the link embedded in activation notifications.
func ActivationURL(site Site, activationKey string) string {
	return fmt.Sprintf("https://%s/activate/%s/", site.GetDomain(), activationKey)
}

// Send delivers a single message to a single recipient.
func (m *SMTPMailer) Send(to, subject, body string) error {
	from := m.cfg.From
	if m.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", m.cfg.FromName, m.cfg.From)
	}

	var msg strings.Builder
	msg.WriteString("From: " + from + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	if m.cfg.UseSSL {
		return m.sendWithSSL(to, msg.String())
	}

	return m.sendWithTLS(to, msg.String())
}

// sendWithTLS connects in plaintext and upgrades via STARTTLS.
func (m *SMTPMailer) sendWithTLS(to, message string) error {
	host := m.cfg.Host

	dialer := &net.Dialer{
		Timeout:   m.timeout(),
		KeepAlive: 30 * time.Second,
	}

	netConn, err := dialer.Dial("tcp", m.cfg.Addr())
	if err != nil {
		return fmt.Errorf("failed to dial SMTP server %s: %w", m.cfg.Addr(), err)
	}

	netConn.SetDeadline(time.Now().Add(m.timeout()))

	conn, err := smtp.NewClient(netConn, host)
	if err != nil {
		netConn.Close()
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer conn.Close()

	if err = conn.Hello("localhost"); err != nil {
		return fmt.Errorf("failed to send HELO: %w", err)
	}

	if err = conn.StartTLS(&tls.Config{ServerName: host}); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	return m.transmit(conn, to, message)
}

// sendWithSSL connects over implicit TLS.
func (m *SMTPMailer) sendWithSSL(to, message string) error {
	host := m.cfg.Host

	dialer := &net.Dialer{Timeout: m.timeout()}

	netConn, err := tls.DialWithDialer(dialer, "tcp", m.cfg.Addr(), &tls.Config{ServerName: host})
	if err != nil {
		return fmt.Errorf("failed to dial SMTP server (SSL) %s: %w", m.cfg.Addr(), err)
	}

	conn, err := smtp.NewClient(netConn, host)
	if err != nil {
		netConn.Close()
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer conn.Close()

	if err = conn.Hello("localhost"); err != nil {
		return fmt.Errorf("failed to send HELO: %w", err)
	}

	return m.transmit(conn, to, message)
}

func (m *SMTPMailer) transmit(conn *smtp.Client, to, message string) error {
	if m.cfg.Username != "" && m.cfg.Password != "" {
		auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
		if err := conn.Auth(auth); err != nil {
			return fmt.Errorf("failed to authenticate (user: %s): %w", m.cfg.Username, err)
		}
	}

	if err := conn.Mail(m.cfg.From); err != nil {
		return fmt.Errorf("failed to set sender (%s): %w", m.cfg.From, err)
	}
	if err := conn.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient (%s): %w", to, err)
	}

	w, err := conn.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}

	if _, err = w.Write([]byte(message)); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return conn.Quit()
}

func (m *SMTPMailer) timeout() time.Duration {
	if m.cfg.Timeout == 0 {
		return 30 * time.Second
	}
	return m.cfg.Timeout
}

func (m *SMTPMailer) renderTemplate(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := m.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
