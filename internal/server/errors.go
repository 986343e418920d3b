package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/orghub/orghub/internal/audit/domain"
	authdomain "github.com/orghub/orghub/internal/auth/domain"
	eventdomain "github.com/orghub/orghub/internal/event/domain"
	partnerdomain "github.com/orghub/orghub/internal/partner/domain"
	pedomain "github.com/orghub/orghub/internal/partnerevent/domain"
	recdomain "github.com/orghub/orghub/internal/recommendation/domain"
	unitdomain "github.com/orghub/orghub/internal/unit/domain"
	userdomain "github.com/orghub/orghub/internal/user/domain"
)

var (
	ErrForbidden      = errors.New("the user doesn't have enough privileges")
	ErrInvalidRequest = errors.New("invalid request body")
	ErrInvalidID      = errors.New("invalid id")

	// ErrStorageUnavailable is returned by upload endpoints when no
	// object store was configured at startup.
	ErrStorageUnavailable = errors.New("file storage is not configured")

	ErrTooManyRequests = errors.New("too many login attempts")
)

// ErrorHandlingMiddleware renders the last handler error as a JSON
// body of the shape {"detail": "..."}.
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

		status, detail := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, gin.H{"detail": detail})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, string) {
	var missing *unitdomain.MissingUsersError
	if errors.As(err, &missing) {
		return http.StatusBadRequest, missing.Error()
	}

	switch {
	case errors.Is(err, authdomain.ErrInvalidCredentials),
		errors.Is(err, authdomain.ErrMissingToken),
		errors.Is(err, authdomain.ErrInvalidToken),
		errors.Is(err, authdomain.ErrTokenRevoked),
		errors.Is(err, authdomain.ErrWrongTokenType):
		return http.StatusUnauthorized, err.Error()

	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, err.Error()

	case errors.Is(err, ErrTooManyRequests):
		return http.StatusTooManyRequests, err.Error()

	case errors.Is(err, userdomain.ErrUserNotFound),
		errors.Is(err, unitdomain.ErrUnitNotFound),
		errors.Is(err, partnerdomain.ErrPartnerNotFound),
		errors.Is(err, eventdomain.ErrEventNotFound),
		errors.Is(err, pedomain.ErrEventNotFound),
		errors.Is(err, pedomain.ErrScheduleNotFound),
		errors.Is(err, pedomain.ErrMemberNotFound),
		errors.Is(err, recdomain.ErrNotFound):
		return http.StatusNotFound, err.Error()

	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, ErrInvalidID),
		errors.Is(err, authdomain.ErrInactiveUser),
		errors.Is(err, userdomain.ErrEmailExists),
		errors.Is(err, userdomain.ErrInvalidEmail),
		errors.Is(err, userdomain.ErrPasswordTooShort),
		errors.Is(err, userdomain.ErrWrongPassword),
		errors.Is(err, userdomain.ErrSamePassword),
		errors.Is(err, userdomain.ErrInvalidTheme),
		errors.Is(err, userdomain.ErrInvalidLang),
		errors.Is(err, unitdomain.ErrInvalidName),
		errors.Is(err, unitdomain.ErrUnitNameExists),
		errors.Is(err, unitdomain.ErrLeaderNotMember),
		errors.Is(err, unitdomain.ErrUnitReferenced),
		errors.Is(err, partnerdomain.ErrNameExists),
		errors.Is(err, partnerdomain.ErrInvalidStatus),
		errors.Is(err, eventdomain.ErrInvalidStatus),
		errors.Is(err, eventdomain.ErrInvalidExchangeLevel),
		errors.Is(err, eventdomain.ErrMissingStartTime),
		errors.Is(err, eventdomain.ErrMissingLocation),
		errors.Is(err, pedomain.ErrPartnerNotFound),
		errors.Is(err, pedomain.ErrMissingName),
		errors.Is(err, pedomain.ErrMissingFullName),
		errors.Is(err, pedomain.ErrInvalidTimeRange),
		errors.Is(err, recdomain.ErrInvalidTargetType),
		errors.Is(err, recdomain.ErrTargetNotFound),
		errors.Is(err, recdomain.ErrMissingTitle),
		errors.Is(err, recdomain.ErrAlreadyApproved),
		errors.Is(err, auditdomain.ErrInvalidTimeRange),
		errors.Is(err, auditdomain.ErrInvalidStatus):
		return http.StatusBadRequest, err.Error()

	default:
		return http.StatusInternalServerError, err.Error()
	}
}
