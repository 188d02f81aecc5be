// Package rbac holds the static role and permission tables.
// Pure lookups — no state, no side effects. The same tables gate both the
// HTTP layer (view access) and the service layer (status transitions).
package rbac

import "github.com/mbcx07/SISTRA/internal/workflow"

// Role is one of the five system roles.
type Role string

const (
	CapturistaUnidad      Role = "CAPTURISTA_UNIDAD"
	ValidadorPrestaciones Role = "VALIDADOR_PRESTACIONES"
	AutorizadorJSDPDSPNC  Role = "AUTORIZADOR_JSDP_DSPNC"
	ConsultaCentral       Role = "CONSULTA_CENTRAL"
	AdminSistema          Role = "ADMIN_SISTEMA"
)

// Valida reports whether r is a known role.
func Valida(r Role) bool {
	switch r {
	case CapturistaUnidad, ValidadorPrestaciones, AutorizadorJSDPDSPNC, ConsultaCentral, AdminSistema:
		return true
	}
	return false
}

// View identifies an application section.
type View string

const (
	ViewDashboard  View = "dashboard"
	ViewTramites   View = "tramites"
	ViewNuevo      View = "nuevo"
	ViewCentral    View = "central"
	ViewAdminUsers View = "adminUsers"
)

var tabsByRole = map[Role][]View{
	CapturistaUnidad:      {ViewDashboard, ViewTramites, ViewNuevo},
	ValidadorPrestaciones: {ViewDashboard, ViewTramites},
	AutorizadorJSDPDSPNC:  {ViewDashboard, ViewTramites, ViewCentral},
	ConsultaCentral:       {ViewDashboard, ViewTramites, ViewCentral},
	AdminSistema:          {ViewDashboard, ViewTramites, ViewNuevo, ViewCentral, ViewAdminUsers},
}

// TabsForRole returns the views accessible to r.
func TabsForRole(r Role) []View {
	tabs := tabsByRole[r]
	out := make([]View, len(tabs))
	copy(out, tabs)
	return out
}

// CanAccessView reports whether r may open the given view.
func CanAccessView(r Role, v View) bool {
	for _, tab := range tabsByRole[r] {
		if tab == v {
			return true
		}
	}
	return false
}

// CanAuthorizeImporte reports whether r may set the authorized amount.
func CanAuthorizeImporte(r Role) bool {
	return r == AdminSistema || r == AutorizadorJSDPDSPNC
}

// CanCreateTramite reports whether r may capture new trámites.
// CONSULTA_CENTRAL is a read-only role.
func CanCreateTramite(r Role) bool {
	return Valida(r) && r != ConsultaCentral
}

// CanUpdateStatus reports whether r may move a trámite into target.
// This is the permission gate; graph validity is checked separately by the
// workflow package and both must pass.
func CanUpdateStatus(r Role, target workflow.Estatus) bool {
	if r == AdminSistema {
		return true
	}
	if r == ConsultaCentral {
		return false
	}
	switch target {
	case workflow.Autorizado:
		return CanAuthorizeImporte(r)
	case workflow.EnviadoAOptica, workflow.EnProcesoOptica, workflow.ListoParaEntrega,
		workflow.Entregado, workflow.Cerrado:
		// Fulfillment states are handled by the central roles only.
		return r == ValidadorPrestaciones || r == AutorizadorJSDPDSPNC
	case workflow.Borrador, workflow.EnRevisionDocumental, workflow.Rechazado:
		return r == CapturistaUnidad || r == ValidadorPrestaciones || r == AutorizadorJSDPDSPNC
	}
	return false
}
