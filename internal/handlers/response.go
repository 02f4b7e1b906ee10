package handlers

// GeneralResponse is the common response envelope
// swagger:model GeneralResponse
type GeneralResponse struct {
	// Whether the operation succeeded
	// default: true
	IsSuccessful bool `json:"isSuccessful"`

	// Human-readable result message
	// default: OK
	Message string `json:"message"`

	// Operation payload, empty when there is none
	Data []string `json:"data"`
}

// ErrorResponse is the common error body
// swagger:model ErrorResponse
type ErrorResponse struct {
	// Error message
	// default: Internal server error
	Error string `json:"error"`
}
