// Package handlers exposes the studio and gallery over a JSON API.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/peteliu66/Tmall-Model-Generation/internal/infra"
	"github.com/peteliu66/Tmall-Model-Generation/internal/studio"
)

// App is the handler container holding the session and logger.
type App struct {
	Session *studio.Session
	Logger  infra.Logger
}

// NewApp constructs the handler container.
func NewApp(session *studio.Session, logger infra.Logger) *App {
	return &App{Session: session, Logger: logger}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, slug, message string) {
	a.json(w, code, map[string]any{
		"error": map[string]string{"code": slug, "message": message},
	})
}
