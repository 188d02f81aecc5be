package dto

type CrearUsuarioRequest struct {
	Matricula string `json:"matricula" validate:"required"`
	Nombre    string `json:"nombre"    validate:"required"`
	Password  string `json:"password"  validate:"required,min=10"`
	Role      string `json:"role"      validate:"required,oneof=CAPTURISTA_UNIDAD VALIDADOR_PRESTACIONES AUTORIZADOR_JSDP_DSPNC CONSULTA_CENTRAL ADMIN_SISTEMA"`
	Unidad    string `json:"unidad"    validate:"required"`
	OOAD      string `json:"ooad"      validate:"required"`
}

type ActualizarUsuarioRequest struct {
	Nombre *string `json:"nombre" validate:"omitempty,min=1"`
	Role   *string `json:"role"   validate:"omitempty,oneof=CAPTURISTA_UNIDAD VALIDADOR_PRESTACIONES AUTORIZADOR_JSDP_DSPNC CONSULTA_CENTRAL ADMIN_SISTEMA"`
	Unidad *string `json:"unidad" validate:"omitempty,min=1"`
	OOAD   *string `json:"ooad"   validate:"omitempty,min=1"`
	// Password, cuando viene, se valida contra la política completa en el servicio.
	Password *string `json:"password" validate:"omitempty,min=10"`
}

type UsuarioResponse struct {
	ID        string `json:"id"`
	Matricula string `json:"matricula"`
	Nombre    string `json:"nombre"`
	Role      string `json:"role"`
	Unidad    string `json:"unidad"`
	OOAD      string `json:"ooad"`
	Activo    bool   `json:"activo"`
}
