package models

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// LoginResponse represents the response to a successful login
type LoginResponse struct {
	Message string `json:"message"`
	User    *User  `json:"user"`
}

// CSRFResponse carries the per-session anti-forgery token
type CSRFResponse struct {
	CSRFToken string `json:"csrf_token"`
}
