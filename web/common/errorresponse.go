package common

type ErrorResponse struct {
	Message string `json:"message"`
	// Messages carries one entry per violation when a save is refused by
	// timesheet validation.
	Messages []string `json:"messages,omitempty"`
}

func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{
		Message: message,
	}
}

func NewValidationErrorResponse(messages []string) *ErrorResponse {
	return &ErrorResponse{
		Message:  "Validation failed",
		Messages: messages,
	}
}
