package worker

// bitacora_worker.go
// Persists audit entries dequeued from QueueBitacora. The bitácora is the
// institutional record of both granted and denied actions, so entries are
// retried locally before giving up to the DLQ: fire-and-forget for the
// caller, never silently dropped here.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/mbcx07/SISTRA/internal/model"
	"github.com/mbcx07/SISTRA/internal/repository"
)

const bitacoraMaxAttempts = 3

// BitacoraWorker processes audit entries from QueueBitacora.
type BitacoraWorker struct {
	repo repository.BitacoraRepository
	rdb  *redis.Client
}

func NewBitacoraWorker(repo repository.BitacoraRepository, rdb *redis.Client) *BitacoraWorker {
	return &BitacoraWorker{repo: repo, rdb: rdb}
}

// Process writes one bitácora entry, retrying with a short linear backoff
// before sending the payload to the DLQ.
func (w *BitacoraWorker) Process(ctx context.Context, raw json.RawMessage) {
	var entry model.Bitacora
	if err := json.Unmarshal(raw, &entry); err != nil {
		log.Error().Err(err).Msg("bitacora_worker: invalid payload")
		SendToDLQ(ctx, w.rdb, QueueBitacora, "bitacora", raw, "payload inválido: "+err.Error(), 0)
		return
	}
	if entry.Fecha.IsZero() {
		entry.Fecha = time.Now()
	}

	var lastErr error
	for attempt := 1; attempt <= bitacoraMaxAttempts; attempt++ {
		if lastErr = w.repo.Append(ctx, &entry); lastErr == nil {
			return
		}
		log.Warn().Err(lastErr).Int("attempt", attempt).
			Str("accion", entry.Accion).Msg("bitacora_worker: append failed")
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Duration(attempt) * time.Second):
		}
	}
	SendToDLQ(ctx, w.rdb, QueueBitacora, "bitacora", raw, lastErr.Error(), bitacoraMaxAttempts)
}
