package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/peteliu66/Tmall-Model-Generation/internal/http/handlers"
	"github.com/peteliu66/Tmall-Model-Generation/internal/infra"
	"github.com/peteliu66/Tmall-Model-Generation/internal/middleware"
	"github.com/peteliu66/Tmall-Model-Generation/web"
)

// NewRouter builds the HTTP surface: the JSON API, the stored-object static
// mount and the embedded single-page UI. staticDir may be empty when
// persistence is disabled; the /static mount is skipped then.
func NewRouter(app *handlers.App, logger infra.Logger, staticDir string) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		middleware.Logger(logger),
		chimw.Recoverer,
		middleware.CORS(nil),
	)

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/options", app.Options)
	r.Route("/v1/studio", func(r chi.Router) {
		r.Post("/upload", app.StudioUpload)
		r.Post("/generate", app.StudioGenerate)
		r.Get("/state", app.StudioState)
	})
	r.Get("/v1/gallery", app.Gallery)

	if staticDir != "" {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	}
	r.Handle("/*", web.Handler())

	return r
}
