package dto

// ImprimirRequest asks for emission of one of the two printable documents.
// Motivo is mandatory only when the emission turns out to be a reimpresión;
// the service enforces that, not the binding.
type ImprimirRequest struct {
	TipoDocumento string  `json:"tipo_documento" validate:"required,oneof=formato_027 tarjeta_028"`
	Motivo        *string `json:"motivo"         validate:"omitempty,min=5"`
}

type ImpresionResponse struct {
	Folio             string `json:"folio"`
	TipoDocumento     string `json:"tipo_documento"`
	Emision           string `json:"emision"` // ORIGINAL | REIMPRESION
	NumeroImpresion   int    `json:"numero_impresion"`
	Motivo            string `json:"motivo,omitempty"`
	Usuario           string `json:"usuario"`
	Fecha             string `json:"fecha"`
	NombreAutorizador string `json:"nombre_autorizador,omitempty"`
}
