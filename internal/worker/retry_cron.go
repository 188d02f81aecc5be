package worker

// retry_cron.go
// Background goroutine that periodically moves failed notification mails
// from the dead letter queue back into QueueEmail. Uses the Circuit Breaker
// to avoid hammering a downed SMTP relay.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/mbcx07/SISTRA/internal/infra"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 10
	emailRetryMax     = 5
)

// StartRetryCron launches a background goroutine that ticks every 30s and
// requeues dead-lettered mails whose attempt budget is not exhausted.
// Exhausted entries stay in the DLQ for manual intervention via sistractl.
// It respects the context for graceful shutdown.
func StartRetryCron(ctx context.Context, rdb *redis.Client, cb *infra.CircuitBreaker) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				processRetries(ctx, rdb, cb)
			}
		}
	}()
}

func processRetries(ctx context.Context, rdb *redis.Client, cb *infra.CircuitBreaker) {
	// If CB is open, skip entirely — don't hammer a downed relay
	if cb.State() == infra.CBOpen {
		log.Debug().Msg("retry_cron: circuit breaker is open, skipping tick")
		return
	}

	dlq := DLQPrefix + QueueEmail
	requeued := 0
	for i := 0; i < retryBatchSize; i++ {
		raw, err := rdb.RPop(ctx, dlq).Result()
		if err != nil {
			break // empty queue
		}

		var entry DLQEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			log.Error().Err(err).Msg("retry_cron: unreadable DLQ entry dropped")
			continue
		}

		if entry.Attempts >= emailRetryMax {
			// Park it back at the head; operators drain these manually.
			if err := rdb.LPush(ctx, dlq, raw).Err(); err != nil {
				log.Error().Err(err).Msg("retry_cron: failed to park exhausted entry")
			}
			continue
		}

		var payload EmailJobPayload
		if err := json.Unmarshal(entry.Payload, &payload); err != nil {
			log.Error().Err(err).Msg("retry_cron: unreadable email payload dropped")
			continue
		}
		payload.Intentos = entry.Attempts

		data, err := json.Marshal(payload)
		if err != nil {
			continue
		}
		job, err := json.Marshal(Job{Type: entry.JobType, Payload: data})
		if err != nil {
			continue
		}
		if err := rdb.LPush(ctx, QueueEmail, job).Err(); err != nil {
			log.Error().Err(err).Msg("retry_cron: requeue failed")
			continue
		}
		requeued++
	}

	if requeued > 0 {
		log.Info().Int("count", requeued).Msg("retry_cron: requeued dead-lettered mails")
	}
}
