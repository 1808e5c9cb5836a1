package httputil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/decanter-app/decanter/internal/apperr"
)

const maxBodyBytes = 1 << 20

type dataEnvelope struct {
	Data any `json:"data"`
}

// DecodeJSON reads a single JSON value from the request body. Malformed
// bodies come back as INVALID_INPUT.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if r.Body == nil {
		return invalidBody("missing request body")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(dst); err != nil {
		return invalidBody(err.Error())
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return invalidBody("invalid JSON body")
	}
	return nil
}

func invalidBody(reason string) error {
	fields := apperr.FieldErrors{}
	fields.Add("_", reason)
	return apperr.Invalid(fields)
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	if err := encoder.Encode(payload); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}

// WriteData wraps data in the success envelope.
func WriteData(w http.ResponseWriter, r *http.Request, status int, data any) {
	if err := WriteJSON(w, status, dataEnvelope{Data: data}); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("failed to write response")
	}
}

// WriteCSV serves body as a downloadable CSV file.
func WriteCSV(w http.ResponseWriter, r *http.Request, filename, body string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, body); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("failed to write csv")
	}
}
