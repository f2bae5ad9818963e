package ginserver

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gin "github.com/gin-gonic/gin"

	bookingapp "gearshare/internal/app/handlers/booking"
	"gearshare/internal/app/middleware"
	"gearshare/internal/app/policies"
	"gearshare/internal/app/validate"
	domainbooking "gearshare/internal/domain/booking"
	domainlisting "gearshare/internal/domain/listing"
	"gearshare/internal/domain/shared/daterange"
)

func statusFor(t *testing.T, err error) int {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	writeError(c, err)
	return rec.Code
}

func TestWriteErrorValidationFailures(t *testing.T) {
	// the validation middleware formats validator output under its own
	// sentinel; the mapping must not depend on the inner error type
	v := validate.NewStructValidator()
	err := v.Validate(t.Context(), bookingapp.RequestBookingCommand{RenterID: "renter-1"})
	if err == nil {
		t.Fatal("expected a validation error for the incomplete command")
	}
	if got := statusFor(t, err); got != http.StatusBadRequest {
		t.Fatalf("validation error mapped to %d, want 400", got)
	}

	_, err = daterange.New(
		time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	)
	if err == nil {
		t.Fatal("expected an error for the reversed range")
	}
	if got := statusFor(t, err); got != http.StatusBadRequest {
		t.Fatalf("reversed date range mapped to %d, want 400", got)
	}
}

func TestWriteErrorStatusTable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", domainlisting.ErrNotFound, http.StatusNotFound},
		{"date conflict", domainbooking.ErrDateConflict, http.StatusConflict},
		{"stale update", domainbooking.ErrConcurrentUpdate, http.StatusConflict},
		{"replayed failure", fmt.Errorf("%w: dates unavailable", middleware.ErrReplayedFailure), http.StatusConflict},
		{"missing subject", policies.ErrSubjectRequired, http.StatusUnauthorized},
		{"wrong actor", domainbooking.ErrActorNotAllowed, http.StatusForbidden},
		{"own booking", fmt.Errorf("request rejected: %w", domainbooking.ErrOwnBooking), http.StatusBadRequest},
	}
	for _, tc := range cases {
		if got := statusFor(t, tc.err); got != tc.want {
			t.Fatalf("%s mapped to %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestWriteErrorHidesInternals(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	writeError(c, fmt.Errorf("dial tcp 10.0.0.12:27017: connection refused"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "10.0.0.12") {
		t.Fatalf("response leaked internals: %s", rec.Body.String())
	}
}
