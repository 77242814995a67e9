package worker

// dlq.go: jobs that exhaust their retries are parked in a Redis list per
// source queue (dlq:{queue}) for manual inspection.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const DLQPrefix = "dlq:"

// DLQEntry wraps a failed job with metadata for debugging.
type DLQEntry struct {
	OriginalQueue string          `json:"original_queue"`
	JobType       string          `json:"job_type"`
	Payload       json.RawMessage `json:"payload"`
	Reason        string          `json:"reason"`
	FailedAt      string          `json:"failed_at"` // RFC 3339
	Attempts      int             `json:"attempts"`
}

// DeadLetters writes to and inspects the dead letter lists.
type DeadLetters struct {
	rdb *redis.Client
	now func() time.Time
}

func NewDeadLetters(rdb *redis.Client) *DeadLetters {
	return &DeadLetters{rdb: rdb, now: time.Now}
}

// Push parks a failed job. Failures are logged and returned; the caller has
// already recorded the failure in the database.
func (d *DeadLetters) Push(ctx context.Context, queue, jobType string, payload any, reason string, attempts int) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	data, err := json.Marshal(DLQEntry{
		OriginalQueue: queue,
		JobType:       jobType,
		Payload:       raw,
		Reason:        reason,
		FailedAt:      d.now().UTC().Format(time.RFC3339),
		Attempts:      attempts,
	})
	if err != nil {
		return err
	}
	key := DLQPrefix + queue
	if err := d.rdb.LPush(ctx, key, data).Err(); err != nil {
		log.Error().Err(err).Str("dlq_key", key).Msg("dlq: push failed")
		return err
	}
	log.Warn().
		Str("queue", queue).
		Str("job_type", jobType).
		Str("reason", reason).
		Int("attempts", attempts).
		Msg("dlq: job moved to dead letter queue")
	return nil
}

// Len returns the number of parked jobs for queue.
func (d *DeadLetters) Len(ctx context.Context, queue string) (int64, error) {
	return d.rdb.LLen(ctx, DLQPrefix+queue).Result()
}

// Peek returns up to n of the most recent entries for queue.
func (d *DeadLetters) Peek(ctx context.Context, queue string, n int64) ([]DLQEntry, error) {
	raws, err := d.rdb.LRange(ctx, DLQPrefix+queue, 0, n-1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]DLQEntry, 0, len(raws))
	for _, raw := range raws {
		var e DLQEntry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
