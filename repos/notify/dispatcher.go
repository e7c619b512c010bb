package notify

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/vmnc/esports-api/pkg/models"
)

// Dispatcher fans a registration out to every configured notifier in the
// background. Failures are logged and never reach the caller; there is one
// attempt per notifier and no retry.
type Dispatcher struct {
	notifiers []Notifier
	timeout   time.Duration
	log       zerolog.Logger
	wg        sync.WaitGroup
}

// NewDispatcher builds a dispatcher. With no notifiers Dispatch is a no-op.
func NewDispatcher(log zerolog.Logger, timeout time.Duration, notifiers ...Notifier) *Dispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{notifiers: notifiers, timeout: timeout, log: log}
}

// Enabled reports whether any notifier is configured.
func (d *Dispatcher) Enabled() bool {
	return d != nil && len(d.notifiers) > 0
}

// Dispatch returns immediately; delivery happens on detached goroutines with
// their own deadline, so a finished request does not cancel them.
func (d *Dispatcher) Dispatch(reg models.Registration) {
	if !d.Enabled() {
		return
	}
	for _, n := range d.notifiers {
		d.wg.Add(1)
		go d.deliver(n, reg)
	}
}

func (d *Dispatcher) deliver(n Notifier, reg models.Registration) {
	defer d.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().Interface("panic", r).Str("notifier", n.Name()).Msg("notifier panicked")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if err := n.NotifyRegistration(ctx, reg); err != nil {
		d.log.Warn().Err(err).
			Str("notifier", n.Name()).
			Str("registrationId", reg.ID).
			Msg("registration notification failed")
		return
	}
	d.log.Debug().Str("notifier", n.Name()).Str("registrationId", reg.ID).Msg("registration notification sent")
}

// Wait blocks until in-flight deliveries finish. Used on shutdown and in tests.
func (d *Dispatcher) Wait() {
	if d == nil {
		return
	}
	d.wg.Wait()
}
