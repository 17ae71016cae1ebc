package dto

// SequenceResponse consecutivo emitido.
type SequenceResponse struct {
	BusinessID     string `json:"business_id"`
	Counter        string `json:"counter"`
	FiscalYear     int    `json:"fiscal_year"`
	Value          int64  `json:"value"`
	DocumentNumber string `json:"document_number"`
}

// SequenceStateResponse año fiscal y próximos consecutivos del negocio.
type SequenceStateResponse struct {
	BusinessID string           `json:"business_id"`
	FiscalYear int              `json:"fiscal_year"`
	Seeds      map[string]int64 `json:"seeds"`
}
