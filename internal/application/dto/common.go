package dto

// Pagination metadatos de página en respuestas de reportes.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// ErrorResponse cuerpo de error HTTP. Los reportes fallan con cuerpo
// estructurado en lugar de datos parciales.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}
