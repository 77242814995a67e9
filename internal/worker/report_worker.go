package worker

// report_worker.go
// Renders pending reports to PDF. A failed render is rescheduled with
// exponential backoff for the retry sweeper; after MaxReportRetries the report
// is marked failed and parked in the DLQ.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"koalgroup/internal/infra"
	"koalgroup/internal/model"
	"koalgroup/internal/policy"
	"koalgroup/internal/repository"
	"koalgroup/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const MaxReportRetries = 5

// errPermanent marks failures a retry cannot fix.
var errPermanent = errors.New("permanent failure")

// EmailQueue is satisfied by *Dispatcher.
type EmailQueue interface {
	EnqueueEmail(ctx context.Context, payload EmailJobPayload) error
}

// ReportWorkerConfig holds all dependencies of the report worker.
type ReportWorkerConfig struct {
	Reports repository.ReportRepository
	Sources Sources
	DLQ     *DeadLetters
	// Email is nil when SMTP delivery is disabled.
	Email       EmailQueue
	StoragePath string
	Now         func() time.Time
}

type ReportWorker struct {
	cfg ReportWorkerConfig
}

func NewReportWorker(cfg ReportWorkerConfig) *ReportWorker {
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return time.Now().UTC() }
	}
	return &ReportWorker{cfg: cfg}
}

// Process handles one job from QueueReports.
func (w *ReportWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReportJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("report_worker: invalid payload")
		return
	}
	id, err := uuid.Parse(payload.ReportID)
	if err != nil {
		log.Error().Str("report_id", payload.ReportID).Msg("report_worker: invalid report_id")
		return
	}
	if err := w.Render(ctx, id); err != nil {
		log.Error().Err(err).Str("report_id", payload.ReportID).Msg("report_worker: render failed")
	}
}

// Render builds and stores the PDF for a pending report. Reports that are no
// longer pending are left alone, so a duplicate job is harmless. The returned
// error is the render failure, already recorded on the report.
func (w *ReportWorker) Render(ctx context.Context, id uuid.UUID) error {
	r, err := w.cfg.Reports.FindByID(ctx, policy.All(), id)
	if err != nil {
		return fmt.Errorf("load report: %w", err)
	}
	if r.Status != model.ReportPending {
		return nil
	}

	path, err := w.render(ctx, r)
	if err != nil {
		w.fail(ctx, r, err)
		return err
	}

	r.Status = model.ReportReady
	r.FilePath = &path
	r.NextRetryAt = nil
	r.LastError = nil
	if err := w.cfg.Reports.Update(ctx, r); err != nil {
		return fmt.Errorf("mark ready: %w", err)
	}
	log.Info().Str("report_id", r.ID.String()).Str("pdf", path).Int("retries", r.RetryCount).Msg("report_worker: report ready")

	w.notify(ctx, r, path)
	return nil
}

func (w *ReportWorker) render(ctx context.Context, r *model.Report) (string, error) {
	doc, err := w.cfg.Sources.build(ctx, r)
	if err != nil {
		return "", err
	}
	doc.GeneratedAt = w.cfg.Now()
	return infra.RenderReportPDF(doc, w.cfg.StoragePath, service.ReportFileName(r))
}

// fail records a render failure and either schedules the next attempt or
// gives up.
func (w *ReportWorker) fail(ctx context.Context, r *model.Report, cause error) {
	r.RetryCount++
	msg := cause.Error()
	r.LastError = &msg
	next := w.cfg.Now().Add(computeRetryBackoff(r.RetryCount))
	r.NextRetryAt = &next

	if r.RetryCount >= MaxReportRetries || errors.Is(cause, errPermanent) {
		r.Status = model.ReportFailed
		r.NextRetryAt = nil
		if w.cfg.DLQ != nil {
			err := w.cfg.DLQ.Push(ctx, QueueReports, jobReport, ReportJobPayload{ReportID: r.ID.String()},
				fmt.Sprintf("giving up after %d attempts: %s", r.RetryCount, msg), r.RetryCount)
			if err != nil {
				log.Error().Err(err).Str("report_id", r.ID.String()).Msg("report_worker: could not push to dead letter queue")
			}
		}
	} else {
		log.Warn().
			Str("report_id", r.ID.String()).
			Int("retry_count", r.RetryCount).
			Time("next_retry_at", next).
			Msg("report_worker: render failed, scheduled next attempt")
	}

	if err := w.cfg.Reports.Update(ctx, r); err != nil {
		log.Error().Err(err).Str("report_id", r.ID.String()).Msg("report_worker: could not record failure")
	}
}

// notify queues delivery to the requester when mail is enabled.
func (w *ReportWorker) notify(ctx context.Context, r *model.Report, path string) {
	if w.cfg.Email == nil || r.RequestedBy == nil || r.RequestedBy.Email == "" {
		return
	}
	job := EmailJobPayload{
		ToEmail: r.RequestedBy.Email,
		Subject: "KOAL - " + r.Title,
		Body:    fmt.Sprintf("Adjunto encontraras el reporte \"%s\" generado el %s.", r.Title, w.cfg.Now().Format("2006-01-02 15:04")),
		PDFPath: path,
	}
	if err := w.cfg.Email.EnqueueEmail(ctx, job); err != nil {
		log.Warn().Err(err).Str("report_id", r.ID.String()).Msg("report_worker: failed to enqueue email")
	}
}

// computeRetryBackoff is 30s, 1m, 2m, … capped at 30m.
func computeRetryBackoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := 30 * time.Second << uint(attempt-1)
	if d > 30*time.Minute || d <= 0 {
		return 30 * time.Minute
	}
	return d
}
