package mail

//go:generate go run go.uber.org/mock/mockgen -source=./sender.go -destination=./mocks/sender_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// ErrNotConfigured is returned when no relay credentials are set.
var ErrNotConfigured = errors.New("mail: SMTP relay is not configured")

// Sender delivers composed messages.
type Sender interface {
	Send(ctx context.Context, msgs ...Message) error
}

// SMTPConfig describes the outbound relay. The relay must offer STARTTLS.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

// SMTPSender opens one authenticated STARTTLS session per Send call.
type SMTPSender struct {
	cfg SMTPConfig
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) Send(ctx context.Context, msgs ...Message) error {
	if s.cfg.Host == "" || s.cfg.Username == "" {
		return ErrNotConfigured
	}
	if len(msgs) == 0 {
		return nil
	}

	out, buildErr := s.buildAll(msgs)
	if len(out) == 0 {
		return buildErr
	}

	client, err := gomail.NewClient(s.cfg.Host,
		gomail.WithPort(s.cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSMandatory),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.cfg.Username),
		gomail.WithPassword(s.cfg.Password),
		gomail.WithTimeout(s.cfg.Timeout),
	)
	if err != nil {
		return errors.Join(buildErr, fmt.Errorf("mail: failed to create SMTP client: %w", err))
	}
	if err := client.DialAndSendWithContext(ctx, out...); err != nil {
		return errors.Join(buildErr, fmt.Errorf("mail: failed to send via %s:%d: %w", s.cfg.Host, s.cfg.Port, err))
	}
	return buildErr
}

// buildAll converts every message it can. A message that fails to build is left out and
// reported in the joined error; the rest are still sent.
func (s *SMTPSender) buildAll(msgs []Message) ([]*gomail.Msg, error) {
	out := make([]*gomail.Msg, 0, len(msgs))
	var errs []error
	for _, msg := range msgs {
		m, err := s.build(msg)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, m)
	}
	return out, errors.Join(errs...)
}

func (s *SMTPSender) build(msg Message) (*gomail.Msg, error) {
	m := gomail.NewMsg()
	if err := m.From(s.cfg.From); err != nil {
		return nil, fmt.Errorf("mail: invalid sender %q: %w", s.cfg.From, err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("mail: invalid recipient %q: %w", msg.To, err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextPlain, msg.Text)
	m.AddAlternativeString(gomail.TypeTextHTML, msg.HTML)
	return m, nil
}
