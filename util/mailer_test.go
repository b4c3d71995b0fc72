package util

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMailer_DeliversEnqueuedMail(t *testing.T) {
	delivered := make(chan Mail, 4)
	m := NewMailer(4, func(mail Mail) error {
		delivered <- mail
		return nil
	})
	m.Start()

	assert.True(t, m.Enqueue(Mail{To: "a@test.com", Subject: "hello"}))
	assert.True(t, m.Enqueue(Mail{To: "b@test.com", Subject: "world"}))
	m.Stop()

	assert.Len(t, delivered, 2)
	first := <-delivered
	assert.Equal(t, "a@test.com", first.To)
}

func TestMailer_DropsWhenQueueFull(t *testing.T) {
	// Worker never started, so the queue fills up.
	m := NewMailer(1, func(Mail) error { return nil })

	assert.True(t, m.Enqueue(Mail{To: "a@test.com"}))
	assert.False(t, m.Enqueue(Mail{To: "b@test.com"}))
}

func TestMailer_DeliveryFailureDoesNotStopWorker(t *testing.T) {
	var calls int32
	m := NewMailer(4, func(Mail) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("smtp down")
	})
	m.Start()

	m.Enqueue(Mail{To: "a@test.com"})
	m.Enqueue(Mail{To: "b@test.com"})
	m.Stop()

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestMailer_StopIsIdempotent(t *testing.T) {
	m := NewMailer(1, func(Mail) error { return nil })
	m.Start()
	m.Stop()
	assert.NotPanics(t, func() { m.Stop() })
}

func TestDispatchMail_NilMailerIsNoop(t *testing.T) {
	SetMailer(nil)
	assert.NotPanics(t, func() {
		DispatchMail(Mail{To: "nobody@test.com"})
	})
}

func TestDispatchMail_UsesInstalledMailer(t *testing.T) {
	delivered := make(chan Mail, 1)
	m := NewMailer(1, func(mail Mail) error {
		delivered <- mail
		return nil
	})
	m.Start()
	SetMailer(m)
	defer SetMailer(nil)

	DispatchMail(Mail{To: "patient@test.com", Subject: "update"})
	m.Stop()

	assert.Len(t, delivered, 1)
	assert.Equal(t, "patient@test.com", (<-delivered).To)
}
