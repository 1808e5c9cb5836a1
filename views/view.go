package views

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/rs/zerolog/log"
)

func Render(w http.ResponseWriter, r *http.Request, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(r.Context(), w); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("failed to render page")
	}
}
