package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_StatusMapping(t *testing.T) {
	tests := []struct {
		code   Code
		status int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeUpstream, http.StatusBadGateway},
		{CodeNoResults, http.StatusOK},
		{CodeFareUnavailable, http.StatusConflict},
		{CodeMissingData, http.StatusUnprocessableEntity},
		{CodePersistence, http.StatusAccepted},
		{Code("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.status, New(tt.code, "msg").Status)
		})
	}
}

func TestHasCode_ThroughWrapping(t *testing.T) {
	base := Upstream("provider failed").WithDetail("INVALID DATA RECEIVED")
	wrapped := fmt.Errorf("pricing: %w", base)

	assert.True(t, HasCode(wrapped, CodeUpstream))
	assert.False(t, HasCode(wrapped, CodeBooking))
	assert.False(t, HasCode(errors.New("plain"), CodeUpstream))
}

func TestAttemptedDefaults(t *testing.T) {
	assert.False(t, Validation("x").Attempted)
	assert.False(t, MissingData("x").Attempted)
	assert.True(t, Upstream("x").Attempted)
	assert.True(t, Booking("x").Attempted)
}

func TestError_IncludesDetailAndCause(t *testing.T) {
	err := Booking("order rejected").WithDetail("SEGMENT SELL FAILURE").WithErr(errors.New("status 400"))

	assert.Equal(t, "BOOKING_ERROR: order rejected (SEGMENT SELL FAILURE): status 400", err.Error())
	assert.EqualError(t, errors.Unwrap(err), "status 400")
}
