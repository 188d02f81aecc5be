package dto

type EvidenciaResponse struct {
	ID         string `json:"id"`
	Tipo       string `json:"tipo"`
	NombreOrig string `json:"nombre_original"`
	URL        string `json:"url,omitempty"` // presigned, de vigencia corta
	FechaCarga string `json:"fecha_carga"`
}

// EvidenciaListResponse incluye el checklist documental del tipo de
// beneficiario junto con lo ya cargado, para que la unidad vea qué falta.
type EvidenciaListResponse struct {
	Evidencias []EvidenciaResponse `json:"evidencias"`
	Requeridos []string            `json:"documentos_requeridos"`
	Faltantes  []string            `json:"documentos_faltantes"`
}
