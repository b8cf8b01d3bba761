package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	// From is the SMTP envelope sender (MAIL FROM). This should be a raw mailbox address.
	From string
	// FromName is an optional display name used only for the message header.
	FromName string
}

// Message is a single outbound notification mail. TextBody is optional;
// when set the mail is sent as multipart/alternative with the plain-text
// part first.
type Message struct {
	To       string
	ReplyTo  string
	Subject  string
	HTMLBody string
	TextBody string
	// FromName overrides Config.FromName for this message when set.
	FromName string
}

type Sender struct {
	config Config
	auth   smtp.Auth
}

func NewSender(config Config) *Sender {
	var auth smtp.Auth
	if config.User != "" && config.Password != "" {
		auth = smtp.PlainAuth("", config.User, config.Password, config.Host)
	}

	return &Sender{
		config: config,
		auth:   auth,
	}
}

// Addr returns the host:port the sender connects to. Used by health checks.
func (s *Sender) Addr() string {
	return fmt.Sprintf("%s:%s", s.config.Host, s.config.Port)
}

func (s *Sender) Send(ctx context.Context, msg Message) error {
	body := buildMessage(s.config, msg)

	if s.auth != nil {
		return smtp.SendMail(s.Addr(), s.auth, s.config.From, []string{msg.To}, body)
	}

	// No auth - connect directly
	c, err := smtp.Dial(s.Addr())
	if err != nil {
		return fmt.Errorf("dial smtp: %w", err)
	}
	defer func() { _ = c.Close() }()

	if errMail := c.Mail(s.config.From); errMail != nil {
		return fmt.Errorf("mail from: %w", errMail)
	}

	if errRcpt := c.Rcpt(sanitizeHeader(msg.To)); errRcpt != nil {
		return fmt.Errorf("rcpt to: %w", errRcpt)
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}

	_, err = w.Write(body)
	if err != nil {
		return fmt.Errorf("write: %w", err)
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}

	return c.Quit()
}

const altBoundary = "----=_begw_alt"

func buildMessage(cfg Config, msg Message) []byte {
	fromName := msg.FromName
	if fromName == "" {
		fromName = cfg.FromName
	}

	fromHeader := cfg.From
	if strings.TrimSpace(fromName) != "" {
		fromHeader = fmt.Sprintf("%s <%s>", fromName, cfg.From)
	}

	headers := []string{
		fmt.Sprintf("From: %s", sanitizeHeader(fromHeader)),
		fmt.Sprintf("To: %s", sanitizeHeader(msg.To)),
		fmt.Sprintf("Subject: %s", sanitizeHeader(msg.Subject)),
	}
	if msg.ReplyTo != "" {
		headers = append(headers, fmt.Sprintf("Reply-To: %s", sanitizeHeader(msg.ReplyTo)))
	}
	headers = append(headers, "MIME-Version: 1.0")

	var lines []string
	if msg.TextBody == "" {
		lines = append(headers,
			"Content-Type: text/html; charset=UTF-8",
			"",
			msg.HTMLBody,
		)
	} else {
		lines = append(headers,
			fmt.Sprintf("Content-Type: multipart/alternative; boundary=%q", altBoundary),
			"",
			"--"+altBoundary,
			"Content-Type: text/plain; charset=UTF-8",
			"",
			msg.TextBody,
			"",
			"--"+altBoundary,
			"Content-Type: text/html; charset=UTF-8",
			"",
			msg.HTMLBody,
			"",
			"--"+altBoundary+"--",
		)
	}

	return []byte(strings.Join(lines, "\r\n"))
}

func sanitizeHeader(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\n", "")
	return s
}
