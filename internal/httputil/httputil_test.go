package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decanter-app/decanter/internal/apperr"
)

func TestWriteData(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	WriteData(rec, req, http.StatusOK, map[string]string{"slug": "abc"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"data":{"slug":"abc"}}`, rec.Body.String())
}

func TestWriteError(t *testing.T) {
	testCases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "not found", err: apperr.NotFoundf("Tournament not found"), wantStatus: http.StatusNotFound, wantCode: "NOT_FOUND"},
		{name: "already submitted", err: apperr.New(apperr.AlreadySubmitted, "done"), wantStatus: http.StatusConflict, wantCode: "ALREADY_SUBMITTED"},
		{name: "deadline", err: apperr.New(apperr.DeadlinePassed, "late"), wantStatus: http.StatusGone, wantCode: "DEADLINE_PASSED"},
		{name: "plain error", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantCode: "UNKNOWN"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)

			WriteError(rec, req, tc.err)

			assert.Equal(t, tc.wantStatus, rec.Code)
			var body struct {
				Error struct {
					Code    string `json:"code"`
					Message string `json:"message"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.wantCode, body.Error.Code)
			assert.NotEmpty(t, body.Error.Message)
		})
	}
}

func TestWriteErrorFieldErrors(t *testing.T) {
	fields := apperr.FieldErrors{}
	fields.Add("endDate", "End date must be on or after the start date")

	rec := httptest.NewRecorder()
	WriteError(rec, httptest.NewRequest(http.MethodPost, "/", nil), apperr.Invalid(fields))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"fieldErrors":{"endDate":["End date must be on or after the start date"]}`)
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))
	require.NoError(t, DecodeJSON(httptest.NewRecorder(), req, &dst))
	assert.Equal(t, "x", dst.Name)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	err := DecodeJSON(httptest.NewRecorder(), req, &dst)
	assert.True(t, apperr.Is(err, apperr.InvalidInput))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{} {}`))
	err = DecodeJSON(httptest.NewRecorder(), req, &dst)
	assert.True(t, apperr.Is(err, apperr.InvalidInput))
}

func TestRedirectToLogin(t *testing.T) {
	rec := httptest.NewRecorder()
	RedirectToLogin(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("HX-Request", "true")
	RedirectToLogin(rec, req)
	assert.Equal(t, "/login", rec.Header().Get("HX-Redirect"))
}
