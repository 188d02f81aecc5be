// Package workflow defines the trámite status graph and transition validation.
// The transition table below is the single source of truth for the lifecycle;
// every status change in the system goes through ValidateTransition.
package workflow

import (
	"fmt"
	"strings"
)

// Estatus is the workflow state of a trámite.
type Estatus string

const (
	Borrador             Estatus = "BORRADOR"
	EnRevisionDocumental Estatus = "EN_REVISION_DOCUMENTAL"
	Rechazado            Estatus = "RECHAZADO"
	Autorizado           Estatus = "AUTORIZADO"
	EnviadoAOptica       Estatus = "ENVIADO_A_OPTICA"
	EnProcesoOptica      Estatus = "EN_PROCESO_OPTICA"
	ListoParaEntrega     Estatus = "LISTO_PARA_ENTREGA"
	Entregado            Estatus = "ENTREGADO"
	Cerrado              Estatus = "CERRADO"
)

// transitions maps each status to its allowed successors.
// CERRADO is terminal: no outgoing edges.
var transitions = map[Estatus][]Estatus{
	Borrador:             {EnRevisionDocumental},
	EnRevisionDocumental: {Autorizado, Rechazado},
	Rechazado:            {EnRevisionDocumental, Cerrado},
	Autorizado:           {EnviadoAOptica},
	EnviadoAOptica:       {EnProcesoOptica},
	EnProcesoOptica:      {ListoParaEntrega},
	ListoParaEntrega:     {Entregado},
	Entregado:            {Cerrado},
	Cerrado:              {},
}

// Todos lists every status in lifecycle order.
func Todos() []Estatus {
	return []Estatus{
		Borrador, EnRevisionDocumental, Rechazado, Autorizado,
		EnviadoAOptica, EnProcesoOptica, ListoParaEntrega, Entregado, Cerrado,
	}
}

// Valido reports whether e is a known status.
func Valido(e Estatus) bool {
	_, ok := transitions[e]
	return ok
}

// AllowedNext returns the successors of e per the transition table.
func AllowedNext(e Estatus) []Estatus {
	next := transitions[e]
	out := make([]Estatus, len(next))
	copy(out, next)
	return out
}

// Result is the outcome of a transition check. When the transition is not
// allowed, Reason carries a human-readable message and AllowedNext the set of
// valid successors so callers can guide correction.
type Result struct {
	IsValid     bool
	Reason      string
	AllowedNext []Estatus
}

// ValidateTransition checks the edge from → to against the transition table.
// A transition where from == to is always valid: it covers idempotent writes
// that update unrelated fields without moving the workflow.
func ValidateTransition(from, to Estatus) Result {
	allowed := AllowedNext(from)

	if from == to {
		return Result{IsValid: true, AllowedNext: allowed}
	}

	for _, next := range allowed {
		if next == to {
			return Result{IsValid: true, AllowedNext: allowed}
		}
	}

	names := "NINGUNO"
	if len(allowed) > 0 {
		parts := make([]string, len(allowed))
		for i, a := range allowed {
			parts[i] = string(a)
		}
		names = strings.Join(parts, ", ")
	}
	return Result{
		IsValid:     false,
		AllowedNext: allowed,
		Reason:      fmt.Sprintf("Transición inválida: %s -> %s. Siguientes estatus válidos: %s.", from, to, names),
	}
}
