package worker

// email_worker.go
// Processes notification jobs from QueueEmail. Sends go through the circuit
// breaker so a downed relay fast-fails instead of blocking the pool.

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/mbcx07/SISTRA/internal/infra"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
// Intentos counts deliveries already attempted; the retry cron bumps it on
// each requeue so exhausted jobs stay parked in the DLQ.
type EmailJobPayload struct {
	ToEmail    string `json:"to_email"`
	Subject    string `json:"subject"`
	Body       string `json:"body"`
	AttachPath string `json:"attach_path,omitempty"`
	Intentos   int    `json:"intentos,omitempty"`
}

// EmailWorker processes notification jobs from QueueEmail.
type EmailWorker struct {
	mailer *infra.Mailer
	cb     *infra.CircuitBreaker
	rdb    *redis.Client
}

func NewEmailWorker(mailer *infra.Mailer, cb *infra.CircuitBreaker, rdb *redis.Client) *EmailWorker {
	return &EmailWorker{mailer: mailer, cb: cb, rdb: rdb}
}

// Process sends one notification email through the circuit breaker.
func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email — skipping")
		return
	}

	err := w.cb.Execute(func() error {
		return w.mailer.SendNotificacion(payload.ToEmail, payload.Subject, payload.Body, payload.AttachPath)
	})
	if err != nil {
		log.Error().Err(err).Str("to", payload.ToEmail).Msg("email_worker: send failed")
		SendToDLQ(ctx, w.rdb, QueueEmail, "email", raw, err.Error(), payload.Intentos+1)
		return
	}
	log.Info().Str("to", payload.ToEmail).Msg("email_worker: notificacion sent")
}
