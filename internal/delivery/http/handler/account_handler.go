package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"authapp/internal/account"
	"authapp/internal/credential"
	"authapp/internal/shared"
)

// AccountHandler exposes the account lifecycle over form-encoded POST
// bodies, the wire format the legacy clients speak.
type AccountHandler struct {
	manager *account.Manager
	baseURL string
	logger  *shared.AppLogger
}

type RegisterRequest struct {
	Email    string `form:"email" validate:"required,email,max=255"`
	Password string `form:"password" validate:"required"`
}

type ConfirmRequest struct {
	Email           string `form:"email" validate:"required,email,max=255"`
	ActivationToken string `form:"activation_token" validate:"required"`
}

type AuthenticateRequest struct {
	Email    string `form:"email" validate:"required,email,max=255"`
	Password string `form:"password" validate:"required"`
}

func NewAccountHandler(manager *account.Manager, baseURL string, logger *shared.AppLogger) *AccountHandler {
	return &AccountHandler{
		manager: manager,
		baseURL: baseURL,
		logger:  logger,
	}
}

func (h *AccountHandler) Register(c *gin.Context) {
	var params RegisterRequest

	if err := c.ShouldBind(&params); err != nil {
		shared.SendError(c, http.StatusBadRequest, "BAD_REQUEST", []shared.ValidationError{
			{Field: "request", Message: "Invalid request parameters"},
		})
		return
	}

	if err := shared.Validator.Struct(params); err != nil {
		shared.SendValidationError(c, err)
		return
	}

	token, err := h.manager.Register(c.Request.Context(), params.Email, params.Password)

	if err != nil {
		if errors.Is(err, account.ErrAlreadyRegistered) {
			shared.SendConflictError(c, "email", "Email is already registered")
			return
		}

		h.logger.ErrorWithTrace(c.Request.Context(), "registration failed", zap.Error(err))
		shared.SendInternalError(c, "Registration failed")
		return
	}

	// The service only issues the token. Whatever dispatches it (mailer,
	// callback) consumes this response.
	c.JSON(http.StatusOK, gin.H{
		"activation_token": token,
		"activation_url":   credential.ActivationURL(h.baseURL, params.Email, token),
	})
}

func (h *AccountHandler) Confirm(c *gin.Context) {
	var params ConfirmRequest

	if err := c.ShouldBind(&params); err != nil {
		shared.SendError(c, http.StatusBadRequest, "BAD_REQUEST", []shared.ValidationError{
			{Field: "request", Message: "Invalid request parameters"},
		})
		return
	}

	if err := shared.Validator.Struct(params); err != nil {
		shared.SendValidationError(c, err)
		return
	}

	err := h.manager.Confirm(c.Request.Context(), params.Email, params.ActivationToken)

	if err != nil {
		// Unknown email, wrong token and a consumed token all look the same
		if errors.Is(err, account.ErrInvalidToken) {
			shared.SendUnprocessableError(c, "INVALID_TOKEN", "activation_token", "Invalid activation token")
			return
		}

		h.logger.ErrorWithTrace(c.Request.Context(), "confirmation failed", zap.Error(err))
		shared.SendInternalError(c, "Confirmation failed")
		return
	}

	shared.SendSuccess(c, http.StatusOK, nil, "Account activated successfully")
}

func (h *AccountHandler) Authenticate(c *gin.Context) {
	var params AuthenticateRequest

	if err := c.ShouldBind(&params); err != nil {
		shared.SendError(c, http.StatusBadRequest, "BAD_REQUEST", []shared.ValidationError{
			{Field: "request", Message: "Invalid request parameters"},
		})
		return
	}

	if err := shared.Validator.Struct(params); err != nil {
		shared.SendValidationError(c, err)
		return
	}

	ok, err := h.manager.Authenticate(c.Request.Context(), params.Email, params.Password)

	if err != nil {
		h.logger.ErrorWithTrace(c.Request.Context(), "authentication failed", zap.Error(err))
		shared.SendInternalError(c, "Authentication failed")
		return
	}

	// Paranoid response: a denial never says why
	if !ok {
		shared.SendUnauthorizedError(c, "Email or password invalid")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
	})
}
