package handlers

import (
	"net/http"

	"github.com/peteliu66/Tmall-Model-Generation/internal/domain"
)

// Options serves the configurator catalog and the default selection.
func (a *App) Options(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{
		"genders":     domain.Genders,
		"ages":        domain.Ages,
		"ethnicities": domain.Ethnicities,
		"settings":    domain.Settings,
		"defaults":    domain.DefaultModelConfig(),
	})
}
