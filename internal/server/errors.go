package server

import (
	"errors"
	"net/http"

	"github.com/agendabela/agendabela/internal/authorization"
	catalogdomain "github.com/agendabela/agendabela/internal/catalog/domain"
	commissiondomain "github.com/agendabela/agendabela/internal/commission/domain"
	customerdomain "github.com/agendabela/agendabela/internal/customer/domain"
	packagesaledomain "github.com/agendabela/agendabela/internal/packagesale/domain"
	professionaldomain "github.com/agendabela/agendabela/internal/professional/domain"
	reportdomain "github.com/agendabela/agendabela/internal/report/domain"
	scopedomain "github.com/agendabela/agendabela/internal/scope/domain"
	sessiondomain "github.com/agendabela/agendabela/internal/session/domain"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

// ErrorHandlingMiddleware turns domain errors collected on the gin
// context into the JSON error envelope.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	status := statusFor(err)
	if status == http.StatusInternalServerError {
		return status, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
	return status, errorPayload{
		Type:    err.Error(),
		Message: messageFor(status),
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, scopedomain.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, scopedomain.ErrUnauthorized),
		errors.Is(err, authorization.ErrForbidden):
		return http.StatusForbidden
	case isNotFoundError(err),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case isConflictError(err):
		return http.StatusConflict
	case isValidationError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func isNotFoundError(err error) bool {
	for _, target := range []error{
		catalogdomain.ErrServiceNotFound,
		catalogdomain.ErrPackageNotFound,
		packagesaledomain.ErrPackageNotFound,
		packagesaledomain.ErrSaleNotFound,
		sessiondomain.ErrSaleNotFound,
		sessiondomain.ErrBalanceNotFound,
		commissiondomain.ErrRuleNotFound,
		customerdomain.ErrNotFound,
		professionaldomain.ErrNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func isConflictError(err error) bool {
	for _, target := range []error{
		commissiondomain.ErrDuplicateRule,
		commissiondomain.ErrPackageSettledSale,
		sessiondomain.ErrInsufficientSessions,
		sessiondomain.ErrSaleExpired,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func isValidationError(err error) bool {
	for _, target := range []error{
		errInvalidRequest,
		catalogdomain.ErrInvalidScope,
		catalogdomain.ErrInvalidName,
		catalogdomain.ErrInvalidPrice,
		catalogdomain.ErrInvalidExpiry,
		catalogdomain.ErrInvalidItems,
		catalogdomain.ErrInvalidQuantity,
		catalogdomain.ErrDuplicateService,
		catalogdomain.ErrInvalidID,
		packagesaledomain.ErrInvalidScope,
		packagesaledomain.ErrInvalidCustomer,
		packagesaledomain.ErrInvalidProfessional,
		packagesaledomain.ErrInvalidID,
		sessiondomain.ErrInvalidScope,
		sessiondomain.ErrInvalidID,
		sessiondomain.ErrInvalidSessions,
		commissiondomain.ErrInvalidScope,
		commissiondomain.ErrInvalidProfessional,
		commissiondomain.ErrInvalidType,
		commissiondomain.ErrInvalidTarget,
		commissiondomain.ErrInvalidCalculation,
		commissiondomain.ErrInvalidValue,
		commissiondomain.ErrInvalidGross,
		commissiondomain.ErrInvalidID,
		reportdomain.ErrInvalidScope,
		reportdomain.ErrInvalidPeriod,
		reportdomain.ErrInvalidProfessional,
		customerdomain.ErrInvalidScope,
		customerdomain.ErrInvalidName,
		customerdomain.ErrInvalidID,
		professionaldomain.ErrInvalidScope,
		professionaldomain.ErrInvalidIdentity,
		professionaldomain.ErrInvalidName,
		professionaldomain.ErrInvalidID,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func messageFor(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "validation error"
	case http.StatusUnauthorized:
		return "unauthenticated"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not found"
	case http.StatusConflict:
		return "conflict"
	default:
		return "internal server error"
	}
}

var errInvalidRequest = errors.New("invalid_request")

func invalidRequestError() error {
	return errInvalidRequest
}
