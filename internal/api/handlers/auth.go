// Package handlers implements the HTTP handlers for the portal API
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"schoolportal/internal/auth"
	"schoolportal/internal/email"
	"schoolportal/internal/models"
	"schoolportal/internal/repository"
	"schoolportal/internal/security"
	"schoolportal/internal/session"
	"schoolportal/internal/validation"
)

// genericLoginError never distinguishes unknown email, inactive account,
// and wrong password.
const genericLoginError = "Invalid email or password. Please try again."

// genericResetMessage is returned whether or not the email matched an
// account, to avoid enumeration.
const genericResetMessage = "If an account with that email exists, a password reset link has been sent."

const systemError = "A system error occurred. Please try again later."

// AuthHandler orchestrates login, registration, logout, and password reset
type AuthHandler struct {
	userRepo  repository.UserRepository
	resetRepo repository.PasswordResetRepository
	sessions  *session.Manager
	events    *security.EventLogger
	email     email.EmailSender
	log       *zap.Logger
}

// NewAuthHandler creates a new authentication handler with the given dependencies
func NewAuthHandler(
	userRepo repository.UserRepository,
	resetRepo repository.PasswordResetRepository,
	sessions *session.Manager,
	events *security.EventLogger,
	emailService email.EmailSender,
	log *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		userRepo:  userRepo,
		resetRepo: resetRepo,
		sessions:  sessions,
		events:    events,
		email:     emailService,
		log:       log,
	}
}

func (h *AuthHandler) storeError(c *gin.Context, op string, err error) {
	h.log.Error("store failure", zap.String("operation", op), zap.Error(err))
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: systemError})
}

// CSRFToken godoc
// @Summary Fetch the session CSRF token
// @Description Returns the per-session anti-forgery token required on state-changing requests
// @Tags auth
// @Produce json
// @Success 200 {object} models.CSRFResponse
// @Router /auth/csrf [get]
func (h *AuthHandler) CSRFToken(c *gin.Context) {
	s := session.FromContext(c)
	token, err := h.sessions.IssueCSRF(s)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: systemError})
		return
	}
	c.JSON(http.StatusOK, models.CSRFResponse{CSRFToken: token})
}

// Login godoc
// @Summary User login
// @Description Authenticate with email and password and attach the user to the session
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param email formData string true "Account email"
// @Param password formData string true "Password"
// @Success 200 {object} models.LoginResponse
// @Failure 400 {object} models.ErrorResponse "Invalid input or CSRF failure"
// @Failure 401 {object} models.ErrorResponse "Invalid credentials"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: validation.Message(err)})
		return
	}

	// All credential failures log a distinct internal cause but surface
	// the same generic message.
	failLogin := func(details string) {
		h.events.LogRequest(c, models.EventFailedLogin, details, models.SeverityWarning)
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: genericLoginError})
	}

	user, err := h.userRepo.GetByEmail(c.Request.Context(), req.Email)
	if errors.Is(err, repository.ErrUserNotFound) {
		failLogin(fmt.Sprintf("failed login attempt for unknown email: %s", req.Email))
		return
	}
	if err != nil {
		h.storeError(c, "login lookup", err)
		return
	}

	if !user.IsActive {
		failLogin(fmt.Sprintf("failed login attempt for inactive account: %s", req.Email))
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		failLogin(fmt.Sprintf("failed login attempt (wrong password) for: %s", req.Email))
		return
	}

	s := session.FromContext(c)
	h.sessions.Authenticate(s, user)

	now := time.Now()
	if err := h.userRepo.UpdateLastLogin(c.Request.Context(), user.ID, now); err != nil {
		h.log.Warn("failed to update last login", zap.Error(err))
	}
	user.LastLogin = &now

	h.events.LogRequest(c, models.EventSuccessfulLogin,
		fmt.Sprintf("user %s logged in successfully", user.Email), models.SeverityInfo)

	c.JSON(http.StatusOK, models.LoginResponse{
		Message: "Login successful.",
		User:    user,
	})
}

// Register godoc
// @Summary Register a new student account
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param first_name formData string true "First name"
// @Param last_name formData string true "Last name"
// @Param email formData string true "Email"
// @Param password formData string true "Password"
// @Param confirm_password formData string true "Password confirmation"
// @Success 201 {object} models.SuccessResponse
// @Failure 400 {object} models.ErrorResponse "Validation failure"
// @Failure 409 {object} models.ErrorResponse "Email already registered"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: validation.Message(err)})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: systemError})
		return
	}

	user := &models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         models.RoleStudent,
		IsActive:     true,
	}

	err = h.userRepo.Create(c.Request.Context(), user)
	if errors.Is(err, repository.ErrEmailExists) {
		// Deliberately specific: duplicate-account UX is judged to
		// outweigh the pre-auth enumeration risk here.
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: "An account with this email already exists."})
		return
	}
	if err != nil {
		h.storeError(c, "register", err)
		return
	}

	h.events.LogRequest(c, models.EventRegistration,
		fmt.Sprintf("new account registered: %s", user.Email), models.SeverityInfo)

	c.JSON(http.StatusCreated, models.SuccessResponse{Message: "Registration successful. You can now log in."})
}

// ForgotPassword godoc
// @Summary Request a password reset
// @Description Always answers with the same message whether or not the email matches an account
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param email formData string true "Account email"
// @Success 200 {object} models.SuccessResponse
// @Failure 400 {object} models.ErrorResponse "Invalid input or CSRF failure"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: validation.Message(err)})
		return
	}

	user, err := h.userRepo.GetByEmail(c.Request.Context(), req.Email)
	if errors.Is(err, repository.ErrUserNotFound) {
		c.JSON(http.StatusOK, models.SuccessResponse{Message: genericResetMessage})
		return
	}
	if err != nil {
		h.storeError(c, "password reset lookup", err)
		return
	}

	reset, err := h.resetRepo.Create(c.Request.Context(), user.ID)
	if err != nil {
		h.storeError(c, "password reset token", err)
		return
	}

	// Mail failures are swallowed: a different response here would reveal
	// whether the account exists.
	if err := h.email.SendPasswordResetEmail(user.Email, user.FirstName, reset.Token); err != nil {
		h.log.Error("failed to send password reset email", zap.Error(err))
	}

	h.events.LogRequest(c, models.EventPasswordResetRequested,
		fmt.Sprintf("password reset requested for %s", user.Email), models.SeverityInfo)

	c.JSON(http.StatusOK, models.SuccessResponse{Message: genericResetMessage})
}

// ResetPassword godoc
// @Summary Complete a password reset
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param token formData string true "Reset token"
// @Param new_password formData string true "New password"
// @Param confirm_password formData string true "Password confirmation"
// @Success 200 {object} models.SuccessResponse
// @Failure 400 {object} models.ErrorResponse "Invalid, expired, or used token; policy failure"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: validation.Message(err)})
		return
	}

	reset, err := h.resetRepo.GetByToken(c.Request.Context(), req.Token)
	switch {
	case errors.Is(err, repository.ErrResetTokenUsed):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "This reset link has already been used."})
		return
	case errors.Is(err, repository.ErrResetTokenInvalid), errors.Is(err, repository.ErrResetTokenExpired):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "This reset link is invalid or has expired."})
		return
	case err != nil:
		h.storeError(c, "reset token lookup", err)
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: systemError})
		return
	}

	if err := h.userRepo.UpdatePassword(c.Request.Context(), reset.UserID, hash); err != nil {
		h.storeError(c, "password update", err)
		return
	}

	if err := h.resetRepo.MarkAsUsed(c.Request.Context(), reset.ID); err != nil {
		h.storeError(c, "reset token consume", err)
		return
	}

	h.events.LogRequest(c, models.EventPasswordResetSuccessful,
		fmt.Sprintf("password reset completed for user %s", reset.UserID), models.SeverityInfo)

	c.JSON(http.StatusOK, models.SuccessResponse{Message: "Your password has been reset. You can now log in."})
}

// Logout godoc
// @Summary Log out and destroy the session
// @Tags auth
// @Produce json
// @Success 200 {object} models.SuccessResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	s := session.FromContext(c)

	// Log while the session still carries the actor, then tear down.
	if s.Authenticated() {
		h.events.LogRequest(c, models.EventLogout,
			fmt.Sprintf("user %s logged out", s.Email), models.SeverityInfo)
	}

	h.sessions.Destroy(s.ID)
	h.sessions.ClearCookie(c)

	c.JSON(http.StatusOK, models.SuccessResponse{Message: "You have been logged out."})
}
