package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromUnwrapsWrappedErrors(t *testing.T) {
	base := New(AlreadySubmitted, "Application already submitted")
	wrapped := fmt.Errorf("upsert: %w", base)

	got := From(wrapped)
	assert.Same(t, base, got)
	assert.True(t, Is(wrapped, AlreadySubmitted))
	assert.False(t, Is(wrapped, NotFound))
}

func TestFromUnknown(t *testing.T) {
	got := From(errors.New("boom"))
	assert.Equal(t, Unknown, got.Code)
	assert.Equal(t, http.StatusInternalServerError, got.HTTPStatus())
	assert.Nil(t, From(nil))
}

func TestInvalidCarriesFieldErrors(t *testing.T) {
	fields := FieldErrors{}
	fields.Add("endDate", "End date must be on or after the start date")

	err := Invalid(fields)
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus())
	assert.Equal(t, fields, Fields(err))
	assert.Nil(t, Fields(New(NotFound, "x")))
}

func TestHTTPStatusDefaults(t *testing.T) {
	testCases := []struct {
		code   Code
		status int
	}{
		{NotFound, http.StatusNotFound},
		{DeadlinePassed, http.StatusGone},
		{AlreadySubmitted, http.StatusConflict},
		{VolunteerProfileNotFound, http.StatusPreconditionFailed},
		{RateLimited, http.StatusTooManyRequests},
		{Code("SOMETHING_ELSE"), http.StatusInternalServerError},
	}
	for _, tc := range testCases {
		t.Run(string(tc.code), func(t *testing.T) {
			e := &Error{Code: tc.code}
			assert.Equal(t, tc.status, e.HTTPStatus())
		})
	}
}
