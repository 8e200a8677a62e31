package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
	})
}

// HandleServiceError maps a service error to its HTTP status and a
// user-facing message.
func HandleServiceError(c *gin.Context, err error) {
	code, message := describeError(c, err)
	RespondError(c, code, message)
}

// RespondActionError reports a failed form action. The HTTP status is always
// 200; the envelope code carries the semantic status.
func RespondActionError(c *gin.Context, err error) {
	code, message := describeError(c, err)
	c.JSON(http.StatusOK, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
	})
}

func describeError(c *gin.Context, err error) (int, string) {
	var validationErr *ValidationError

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, validationErr.Message
	case errors.Is(err, ErrInvalidPage):
		return http.StatusBadRequest, "Page must be greater than 0"
	case errors.Is(err, ErrInvalidPageSize):
		return http.StatusBadRequest, "Page size must be between 1 and 100"
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password"
	case errors.Is(err, ErrNoOrganization):
		return http.StatusNotFound, "Organization not found"
	case errors.Is(err, ErrEmailAlreadyExists):
		return http.StatusConflict, "An account with this email already exists"
	case errors.Is(err, ErrNotOwner):
		return http.StatusForbidden, "Only the organization owner can delete the account"
	case errors.Is(err, ErrVendorNotFound):
		return http.StatusNotFound, "Vendor not found"
	case errors.Is(err, ErrDocumentNotFound):
		return http.StatusNotFound, "Document not found"
	case errors.Is(err, ErrVendorLimitReached):
		return http.StatusForbidden, "You have reached your vendor limit. Please upgrade your plan."
	case errors.Is(err, ErrDocumentLimitReached):
		return http.StatusForbidden, "You have reached your document limit. Please upgrade your plan."
	case errors.Is(err, ErrSubscriptionNotFound):
		return http.StatusNotFound, "No subscription found"
	case errors.Is(err, ErrInvalidPlan):
		return http.StatusBadRequest, "Invalid plan"
	case errors.Is(err, ErrNoBillingAccount):
		return http.StatusBadRequest, "No billing account found. Please subscribe to a plan first."
	case errors.Is(err, ErrBillingUnavailable):
		return http.StatusServiceUnavailable, "Billing is temporarily unavailable"
	case errors.Is(err, ErrDatabaseError):
		zap.L().Error("Database error", zap.Error(err), zap.String("trace_id", traceID(c)))
		return http.StatusInternalServerError, "Internal server error"
	default:
		zap.L().Error("Unhandled service error", zap.Error(err), zap.String("trace_id", traceID(c)))
		return http.StatusInternalServerError, "Internal server error"
	}
}

func traceID(c *gin.Context) string {
	return c.GetString("trace_id")
}
