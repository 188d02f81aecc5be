package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/mbcx07/SISTRA/internal/model"
	"github.com/mbcx07/SISTRA/internal/rbac"
)

// Actor is the authenticated principal acting on a request, resolved from the
// JWT by the middleware layer.
type Actor struct {
	ID        uuid.UUID
	Matricula string
	Nombre    string
	Role      rbac.Role
	Unidad    string
	OOAD      string
}

// AuditSink receives bitácora entries. Implementations must never fail the
// caller: a logging outage cannot block the primary operation. Entries are
// appended before business-rule rejections are surfaced, so denied intents
// leave a trace too.
type AuditSink interface {
	Append(ctx context.Context, entry *model.Bitacora)
}

// NopSink discards entries. Used where audit wiring is genuinely absent.
type NopSink struct{}

func (NopSink) Append(context.Context, *model.Bitacora) {}
