package mailer

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const flushBatchSize = 20

// Dispatcher delivers outbox email in the background on a cron cadence,
// independent of the request handlers that enqueued it.
type Dispatcher struct {
	outbox      *Outbox
	mailer      Mailer
	schedule    cron.Schedule
	maxAttempts int
	done        chan bool
}

// NewDispatcher creates a dispatcher. scheduleExpr is a standard cron
// expression (or @every syntax) giving the flush cadence.
func NewDispatcher(outbox *Outbox, mailer Mailer, scheduleExpr string, maxAttempts int) (*Dispatcher, error) {
	schedule, err := cron.ParseStandard(scheduleExpr)
	if err != nil {
		return nil, err
	}
	return &Dispatcher{
		outbox:      outbox,
		mailer:      mailer,
		schedule:    schedule,
		maxAttempts: maxAttempts,
		done:        make(chan bool),
	}, nil
}

// Run starts the dispatch loop. It flushes once immediately, then on every
// schedule tick until Stop is called.
func (d *Dispatcher) Run() {
	log.Info().Msg("Starting email dispatcher")
	d.Flush()

	for {
		next := d.schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-d.done:
			timer.Stop()
			log.Info().Msg("Stopping email dispatcher")
			return
		case <-timer.C:
			d.Flush()
		}
	}
}

// Stop halts the dispatch loop.
func (d *Dispatcher) Stop() {
	d.done <- true
}

// Flush attempts delivery of every pending outbox row, bookkeeping failures
// so a row is retried until the attempt cap.
func (d *Dispatcher) Flush() {
	pending, err := d.outbox.Pending(flushBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read email outbox")
		return
	}

	for _, email := range pending {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		sendErr := d.mailer.Send(ctx, email.Email)
		cancel()

		if sendErr != nil {
			log.Warn().Err(sendErr).
				Str("email_id", email.ID).
				Int("attempts", email.Attempts+1).
				Msg("Email delivery failed")
			if err := d.outbox.MarkAttemptFailed(email.ID, sendErr, d.maxAttempts); err != nil {
				log.Error().Err(err).Str("email_id", email.ID).Msg("Failed to record email failure")
			}
			continue
		}

		if err := d.outbox.MarkSent(email.ID); err != nil {
			log.Error().Err(err).Str("email_id", email.ID).Msg("Failed to mark email sent")
		}
	}
}
