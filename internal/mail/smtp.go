package mail

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	gomail "github.com/emersion/go-message/mail"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
)

// SMTPSender submits messages to an SMTP server using PLAIN auth over
// implicit TLS, or STARTTLS when configured.
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	from     string
	startTLS bool
}

// NewSMTPSender creates a sender for the given submission endpoint.
// from is the envelope and header sender address.
func NewSMTPSender(host string, port int, username, password, from string, startTLS bool) *SMTPSender {
	return &SMTPSender{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		startTLS: startTLS,
	}
}

// Send composes a plain-text message and submits it. The submission runs
// in a goroutine so the context deadline bounds how long the caller waits;
// an abandoned submission finishes or fails on its own in the background.
func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	msg, err := composeText(s.from, to, subject, body)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	auth := sasl.NewPlainClient("", s.username, s.password)

	done := make(chan error, 1)
	go func() {
		if s.startTLS {
			done <- smtp.SendMail(addr, auth, s.from, []string{to}, bytes.NewReader(msg))
			return
		}
		done <- smtp.SendMailTLS(addr, auth, s.from, []string{to}, bytes.NewReader(msg))
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("sending mail to %s: %w", to, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("sending mail to %s: %w", to, ctx.Err())
	}
}

// composeText builds a single-part text/plain MIME message.
func composeText(from, to, subject, body string) ([]byte, error) {
	var b bytes.Buffer

	var h gomail.Header
	h.SetDate(time.Now())
	h.SetAddressList("From", []*gomail.Address{{Address: from}})
	h.SetAddressList("To", []*gomail.Address{{Address: to}})
	h.SetSubject(subject)

	mw, err := gomail.CreateWriter(&b, h)
	if err != nil {
		return nil, fmt.Errorf("creating mail writer: %w", err)
	}

	iw, err := mw.CreateInline()
	if err != nil {
		return nil, fmt.Errorf("creating inline part: %w", err)
	}

	var th gomail.InlineHeader
	th.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
	pw, err := iw.CreatePart(th)
	if err != nil {
		return nil, fmt.Errorf("creating text part: %w", err)
	}
	if _, err := io.WriteString(pw, body); err != nil {
		return nil, fmt.Errorf("writing mail body: %w", err)
	}
	pw.Close()
	iw.Close()
	mw.Close()

	return b.Bytes(), nil
}
