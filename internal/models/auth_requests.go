package models

// LoginRequest represents a login form submission
type LoginRequest struct {
	Email    string `form:"email" json:"email" binding:"required,email"`
	Password string `form:"password" json:"password" binding:"required"`
}

// RegisterRequest represents a registration form submission
type RegisterRequest struct {
	FirstName       string `form:"first_name" json:"first_name" binding:"required,max=100"`
	LastName        string `form:"last_name" json:"last_name" binding:"required,max=100"`
	Email           string `form:"email" json:"email" binding:"required,email"`
	Password        string `form:"password" json:"password" binding:"required,password"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password" binding:"required,eqfield=Password"`
}

// ForgotPasswordRequest represents a password reset request form
type ForgotPasswordRequest struct {
	Email string `form:"email" json:"email" binding:"required,email"`
}

// ResetPasswordRequest represents the completion of a password reset
type ResetPasswordRequest struct {
	Token           string `form:"token" json:"token" binding:"required"`
	NewPassword     string `form:"new_password" json:"new_password" binding:"required,password"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password" binding:"required,eqfield=NewPassword"`
}
