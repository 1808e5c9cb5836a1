package httputil

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/decanter-app/decanter/internal/apperr"
)

func InternalServerError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	log.Ctx(r.Context()).Error().Err(err).Msg(msg)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func BadRequest(w http.ResponseWriter, r *http.Request, msg string, err error) {
	log.Ctx(r.Context()).Warn().Err(err).Str("message", msg).Msg("bad request")
	http.Error(w, msg, http.StatusBadRequest)
}

// RedirectToLogin sends browser navigation to the login page.
func RedirectToLogin(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", "/login")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

type errorEnvelope struct {
	Error *apperr.Error `json:"error"`
}

// WriteError writes err as an error envelope. Anything that is not an
// *apperr.Error is logged and reported as UNKNOWN.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperr.From(err)
	status := appErr.HTTPStatus()

	logger := log.Ctx(r.Context())
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Err(err).Str("code", string(appErr.Code)).Int("status", status).Msg("request failed")

	if err := WriteJSON(w, status, errorEnvelope{Error: appErr}); err != nil {
		logger.Error().Err(err).Msg("failed to write error response")
	}
}
