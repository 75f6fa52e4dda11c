package handlers

import "net/http"

// Gallery serves the cached newest-first listing. A refresh query parameter
// forces a re-read from the backing store.
func (a *App) Gallery(w http.ResponseWriter, r *http.Request) {
	items := a.Session.Gallery()
	if r.URL.Query().Get("refresh") == "1" {
		items = a.Session.RefreshGallery(r.Context())
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}
