package util

import (
	"fmt"
	"sync"

	"github.com/go-gomail/gomail"

	"github.com/docspot/docspot-api/config"
)

// Mail is a single outbound message.
type Mail struct {
	To      string
	Subject string
	Body    string
}

// SendFunc delivers a single mail. Implementations must be safe for use from
// the mailer's worker goroutine.
type SendFunc func(Mail) error

// Mailer dispatches mail from a bounded queue on a background worker so a
// slow or failing SMTP server never blocks the request path. Delivery is
// best-effort: failures and overflow drops are logged, never surfaced to the
// caller.
type Mailer struct {
	queue chan Mail
	send  SendFunc
	wg    sync.WaitGroup

	closeOnce sync.Once
}

const defaultMailQueueSize = 64

// NewMailer creates a mailer with the given queue capacity and delivery
// function. Capacity <= 0 selects the default.
func NewMailer(capacity int, send SendFunc) *Mailer {
	if capacity <= 0 {
		capacity = defaultMailQueueSize
	}
	return &Mailer{
		queue: make(chan Mail, capacity),
		send:  send,
	}
}

// NewSMTPMailer creates a mailer that delivers through the configured SMTP
// server. When SMTP settings are absent the mailer only logs each message,
// mirroring a disabled outbound channel.
func NewSMTPMailer(cfg *config.Config, capacity int) *Mailer {
	if cfg == nil || cfg.SMTPHost == "" {
		return NewMailer(capacity, func(m Mail) error {
			auditLogger.Printf("SMTP disabled, dropping mail to %s subject %q", sanitizeLogValue(m.To), sanitizeLogValue(m.Subject))
			return nil
		})
	}

	from := cfg.MailFrom
	if from == "" {
		from = cfg.SMTPUser
	}
	dialer := gomail.NewDialer(cfg.SMTPHost, int(cfg.SMTPPort), cfg.SMTPUser, cfg.SMTPPass)

	return NewMailer(capacity, func(m Mail) error {
		msg := gomail.NewMessage()
		msg.SetHeader("From", from)
		msg.SetHeader("To", m.To)
		msg.SetHeader("Subject", m.Subject)
		msg.SetBody("text/plain", m.Body)
		return dialer.DialAndSend(msg)
	})
}

// Start launches the worker goroutine draining the queue.
func (m *Mailer) Start() {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		for mail := range m.queue {
			if err := m.send(mail); err != nil {
				LogEvent(Event{
					EventType: EventMailFailed,
					Email:     mail.To,
					Message:   fmt.Sprintf("Failed to send mail: %v", err),
				})
			}
		}
	}()
}

// Enqueue queues a mail for delivery. It never blocks: when the queue is full
// the mail is dropped and the drop is logged.
func (m *Mailer) Enqueue(mail Mail) bool {
	select {
	case m.queue <- mail:
		return true
	default:
		LogEvent(Event{
			EventType: EventMailFailed,
			Email:     mail.To,
			Message:   "Mail queue full, dropping message",
		})
		return false
	}
}

// Stop closes the queue and waits for the worker to drain it.
func (m *Mailer) Stop() {
	m.closeOnce.Do(func() {
		close(m.queue)
	})
	m.wg.Wait()
}

var (
	defaultMailer   *Mailer
	defaultMailerMu sync.RWMutex
)

// SetMailer installs the process-wide mailer used by DispatchMail.
func SetMailer(m *Mailer) {
	defaultMailerMu.Lock()
	defer defaultMailerMu.Unlock()
	defaultMailer = m
}

// DispatchMail enqueues a mail on the process-wide mailer. A nil mailer is a
// silent no-op so callers never need to guard the side effect.
func DispatchMail(mail Mail) {
	defaultMailerMu.RLock()
	m := defaultMailer
	defaultMailerMu.RUnlock()
	if m == nil {
		return
	}
	m.Enqueue(mail)
}
