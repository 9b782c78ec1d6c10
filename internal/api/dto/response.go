package dto

// ApiResponse is the standard envelope: a success flag, a human-readable
// message and a data payload (or null). Validation failures additionally
// carry field-level errors.
type ApiResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Data    any           `json:"data"`
	Errors  []ErrorDetail `json:"errors,omitempty"`
}

// ErrorDetail pinpoints a failing field.
type ErrorDetail struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Success builds a successful envelope.
func Success(message string, data any) ApiResponse {
	return ApiResponse{Success: true, Message: message, Data: data}
}

// Failure builds a failed envelope.
func Failure(message string, errors []ErrorDetail) ApiResponse {
	return ApiResponse{Success: false, Message: message, Errors: errors}
}
