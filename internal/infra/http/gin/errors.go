package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"
	validator "github.com/go-playground/validator/v10"

	"gearshare/internal/app/middleware"
	"gearshare/internal/app/policies"
	"gearshare/internal/app/validate"
	domainbooking "gearshare/internal/domain/booking"
	domainlisting "gearshare/internal/domain/listing"
	domainnotification "gearshare/internal/domain/notification"
	domainpricing "gearshare/internal/domain/pricing"
	domainreview "gearshare/internal/domain/review"
	"gearshare/internal/domain/shared/daterange"
	"gearshare/internal/domain/timeslot"
)

// writeError maps domain sentinel errors onto HTTP statuses. Anything
// unrecognized is a 500 with a generic body so internals do not leak.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainbooking.ErrNotFound),
		errors.Is(err, domainlisting.ErrNotFound),
		errors.Is(err, domainreview.ErrNotFound),
		errors.Is(err, domainnotification.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domainbooking.ErrDateConflict),
		errors.Is(err, domainbooking.ErrInvalidTransition),
		errors.Is(err, domainbooking.ErrConcurrentUpdate),
		errors.Is(err, domainreview.ErrDuplicate),
		errors.Is(err, middleware.ErrReplayedFailure):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, policies.ErrSubjectRequired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, domainbooking.ErrActorNotAllowed):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domainbooking.ErrOwnBooking),
		errors.Is(err, domainbooking.ErrWindowIncomplete),
		errors.Is(err, domainlisting.ErrUnavailable),
		errors.Is(err, domainreview.ErrInvalidRating),
		errors.Is(err, domainreview.ErrCommentTooLong),
		errors.Is(err, domainreview.ErrNotEligible),
		errors.Is(err, domainpricing.ErrTimeSlotRequired),
		errors.Is(err, timeslot.ErrUnknownSlot),
		errors.Is(err, daterange.ErrInvalidRange),
		errors.Is(err, validate.ErrInvalidMessage),
		isValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func isValidationError(err error) bool {
	var verrs validator.ValidationErrors
	return errors.As(err, &verrs)
}
