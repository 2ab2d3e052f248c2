package common

// ErrorResponse is the {message} body every failed request answers with.
// The console shows message to the operator as is.
type ErrorResponse struct {
	Message string `json:"message"`
}

func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{
		Message: message,
	}
}
