package worker

// email_worker.go
// Delivers ready reports by SMTP. Every send goes through the circuit breaker
// so a dead relay fails fast instead of tying up the pool.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"koalgroup/internal/infra"

	"github.com/rs/zerolog/log"
)

const emailAttempts = 3

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	PDFPath string `json:"pdf_path"`
}

// Sender is satisfied by *infra.Mailer.
type Sender interface {
	Send(to, subject, body, attachmentPath string) error
}

type EmailWorker struct {
	sender    Sender
	cb        *infra.CircuitBreaker
	dlq       *DeadLetters
	retryBase time.Duration
}

// NewEmailWorker returns a worker that drops every job when sender is nil.
func NewEmailWorker(sender Sender, cb *infra.CircuitBreaker, dlq *DeadLetters) *EmailWorker {
	return &EmailWorker{sender: sender, cb: cb, dlq: dlq, retryBase: time.Second}
}

// Process sends one report, retrying with backoff, and parks the job in the
// DLQ when every attempt fails.
func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return
	}
	if w.sender == nil {
		log.Debug().Str("to", payload.ToEmail).Msg("email_worker: SMTP not configured, skipping")
		return
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email, skipping")
		return
	}

	err := withRetry(ctx, emailAttempts, w.retryBase, func(attempt int) error {
		err := w.cb.Execute(func() error {
			return w.sender.Send(payload.ToEmail, payload.Subject, payload.Body, payload.PDFPath)
		})
		if err != nil {
			log.Warn().Err(err).Int("attempt", attempt+1).Str("to", payload.ToEmail).Msg("email_worker: send failed")
		}
		return err
	})
	if err != nil {
		_ = w.dlq.Push(ctx, QueueEmail, jobEmail, payload,
			fmt.Sprintf("send failed after %d attempts: %v", emailAttempts, err), emailAttempts)
		return
	}
	log.Info().Str("to", payload.ToEmail).Msg("email_worker: report sent")
}

// withRetry calls fn up to maxAttempts times, waiting base, 2*base, … between
// attempts. It returns the last error when every attempt fails.
func withRetry(ctx context.Context, maxAttempts int, base time.Duration, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(base << uint(i-1)):
			}
		}
		if lastErr = fn(i); lastErr == nil {
			return nil
		}
	}
	return lastErr
}
