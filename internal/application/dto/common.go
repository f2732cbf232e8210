package dto

// PageRequest paginación por limit/offset (transacciones, estados de cuenta).
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=1,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage aplica el límite por defecto si no vino en la consulta.
func (p *PageRequest) DefaultPage() {
	if p.Limit == 0 {
		p.Limit = 20
	}
}

// Window recorta [Offset, Offset+Limit) a una colección de n elementos.
func (p PageRequest) Window(n int) (start, end int) {
	start = min(max(p.Offset, 0), n)
	end = min(start+p.Limit, n)
	return start, end
}

// Response metadatos de la página servida sobre total elementos.
func (p PageRequest) Response(total int) PageResponse {
	return PageResponse{Limit: p.Limit, Offset: p.Offset, Total: total}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
