package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/mbcx07/SISTRA/internal/model"
	"github.com/mbcx07/SISTRA/internal/workflow"
)

const (
	QueueBitacora = "jobs:bitacora"
	QueueEmail    = "jobs:email"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Handler processes one dequeued job payload.
type Handler interface {
	Process(ctx context.Context, raw json.RawMessage)
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
//
// Dispatcher is the production AuditSink and Notificador: both are
// best-effort by contract, so enqueue failures are logged and swallowed.
type Dispatcher struct {
	rdb    *redis.Client
	domain string
}

func NewDispatcher(rdb *redis.Client, domain string) *Dispatcher {
	return &Dispatcher{rdb: rdb, domain: domain}
}

// Append enqueues a bitácora entry for asynchronous persistence. A logging
// outage never blocks the primary operation.
func (d *Dispatcher) Append(ctx context.Context, entry *model.Bitacora) {
	if err := d.enqueue(ctx, QueueBitacora, "bitacora", entry); err != nil {
		log.Error().Err(err).Str("accion", entry.Accion).Msg("bitacora: enqueue failed")
	}
}

// TransicionTramite enqueues a notification mail for the capturing unit on
// decision transitions. Best effort.
func (d *Dispatcher) TransicionTramite(ctx context.Context, t *model.Tramite, from, to workflow.Estatus) {
	asunto := fmt.Sprintf("Trámite %s: %s", t.Folio, to)
	cuerpo := fmt.Sprintf("El trámite %s cambió de %s a %s.", t.Folio, from, to)
	if to == workflow.Rechazado && t.MotivoRechazo != "" {
		cuerpo += "\nMotivo: " + t.MotivoRechazo
	}
	payload := EmailJobPayload{
		ToEmail: fmt.Sprintf("prestaciones.%s@%s", strings.ToLower(t.Unidad), d.domain),
		Subject: asunto,
		Body:    cuerpo,
	}
	if err := d.enqueue(ctx, QueueEmail, "email", payload); err != nil {
		log.Error().Err(err).Str("folio", t.Folio).Msg("notificacion: enqueue failed")
	}
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// StartWorkerPool launches numWorkers goroutines consuming both queues,
// routing each job to the handler registered for its queue.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, handlers map[string]Handler, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, handlers, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, handlers map[string]Handler, id int) {
	queues := make([]string, 0, len(handlers))
	for q := range handlers {
		queues = append(queues, q)
	}
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, handlers, result[0], result[1])
		}
	}
}

func processJob(ctx context.Context, handlers map[string]Handler, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}
	h, ok := handlers[queue]
	if !ok {
		log.Error().Str("queue", queue).Msg("no handler registered for queue")
		return
	}
	h.Process(ctx, job.Payload)
}
