package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ConfirmQuery confirmación explícita de operaciones destructivas (?confirm=true).
type ConfirmQuery struct {
	Confirm bool `query:"confirm"`
}
