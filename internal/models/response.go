package models

// APIResponse is the JSON envelope returned by the profile endpoints.
// Reads carry only "user"; writes add "success"; failures carry only "error".
type APIResponse struct {
	Success bool        `json:"success,omitempty"`
	User    interface{} `json:"user,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// NewUserResponse wraps a profile document for a read.
func NewUserResponse(user interface{}) APIResponse {
	return APIResponse{User: user}
}

// NewSuccessResponse wraps the document returned by a successful write.
func NewSuccessResponse(user interface{}) APIResponse {
	return APIResponse{
		Success: true,
		User:    user,
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(message string) APIResponse {
	return APIResponse{Error: message}
}
