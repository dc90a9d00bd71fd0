package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sanadlabs/sanad-backend/internal/services"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError                `json:"error"`
	Quota *services.QuotaDecision `json:"quota,omitempty"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// RespondServiceError maps service sentinel errors to HTTP statuses.
// Anything unrecognized is a 500 with a generic message so internal
// detail never leaks to clients.
func RespondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
	case errors.Is(err, services.ErrNotFound):
		RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, services.ErrValidation):
		RespondError(c, http.StatusBadRequest, "validation", err)
	case errors.Is(err, services.ErrSelfReport):
		RespondError(c, http.StatusBadRequest, "self_report", err)
	case errors.Is(err, services.ErrAlreadyReported):
		RespondError(c, http.StatusConflict, "already_reported", err)
	case errors.Is(err, services.ErrAlreadySaved):
		RespondError(c, http.StatusConflict, "already_saved", err)
	case errors.Is(err, services.ErrQuotaExceeded):
		respondQuotaExceeded(c, err)
	case errors.Is(err, services.ErrAIUnavailable):
		RespondError(c, http.StatusServiceUnavailable, "ai_unavailable", err)
	default:
		RespondError(c, http.StatusInternalServerError, "internal", errors.New("internal server error"))
	}
}

func respondQuotaExceeded(c *gin.Context, err error) {
	env := ErrorEnvelope{
		Error: APIError{
			Message: err.Error(),
			Code:    "quota_exceeded",
		},
	}
	var qe *services.QuotaExceededError
	if errors.As(err, &qe) {
		env.Quota = &qe.Decision
	}
	c.JSON(http.StatusTooManyRequests, env)
}
