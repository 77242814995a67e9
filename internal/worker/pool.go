package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueReports = "jobs:reports"
	QueueEmail   = "jobs:email"

	jobReport = "report"
	jobEmail  = "email"

	popTimeout = 5 * time.Second
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ReportJobPayload names the report a worker should render.
type ReportJobPayload struct {
	ReportID string `json:"report_id"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueReport queues a pending report for rendering.
func (d *Dispatcher) EnqueueReport(ctx context.Context, reportID uuid.UUID) error {
	return d.enqueue(ctx, QueueReports, jobReport, ReportJobPayload{ReportID: reportID.String()})
}

// EnqueueEmail queues a report delivery.
func (d *Dispatcher) EnqueueEmail(ctx context.Context, payload EmailJobPayload) error {
	return d.enqueue(ctx, QueueEmail, jobEmail, payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(Job{Type: jobType, Payload: data})
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// Handler processes the payload of one job.
type Handler interface {
	Process(ctx context.Context, payload json.RawMessage)
}

// Pool consumes the job queues with a fixed number of goroutines.
type Pool struct {
	rdb      *redis.Client
	handlers map[string]Handler
}

// NewPool routes each queue to its handler. A nil handler leaves the queue
// unconsumed.
func NewPool(rdb *redis.Client, reports, email Handler) *Pool {
	p := &Pool{rdb: rdb, handlers: map[string]Handler{}}
	if reports != nil {
		p.handlers[QueueReports] = reports
	}
	if email != nil {
		p.handlers[QueueEmail] = email
	}
	return p
}

// Start launches numWorkers goroutines. Each one blocks on BRPOP, so idle
// workers cost nothing, and returns once ctx is cancelled.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	if numWorkers < 1 {
		numWorkers = 1
	}
	for i := 0; i < numWorkers; i++ {
		go p.run(ctx, i)
	}
	log.Info().Int("workers", numWorkers).Strs("queues", p.queues()).Msg("worker pool started")
}

func (p *Pool) queues() []string {
	// Reports first: BRPOP serves the leftmost non-empty list.
	var qs []string
	for _, q := range []string{QueueReports, QueueEmail} {
		if _, ok := p.handlers[q]; ok {
			qs = append(qs, q)
		}
	}
	return qs
}

func (p *Pool) run(ctx context.Context, id int) {
	queues := p.queues()
	for {
		select {
		case <-ctx.Done():
			log.Info().Int("worker", id).Msg("worker shutting down")
			return
		default:
		}
		result, err := p.rdb.BRPop(ctx, popTimeout, queues...).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
				log.Warn().Err(err).Int("worker", id).Msg("worker: pop failed")
				sleep(ctx, time.Second)
			}
			continue
		}
		if len(result) < 2 {
			continue
		}
		p.dispatch(ctx, result[0], result[1])
	}
}

// dispatch decodes one envelope and hands it to the queue's handler.
func (p *Pool) dispatch(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}
	h, ok := p.handlers[queue]
	if !ok {
		log.Warn().Str("queue", queue).Str("type", job.Type).Msg("no handler for queue")
		return
	}
	log.Debug().Str("type", job.Type).Str("queue", queue).Msg("processing job")
	h.Process(ctx, job.Payload)
}

func sleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
