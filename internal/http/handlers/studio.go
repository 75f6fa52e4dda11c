package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/peteliu66/Tmall-Model-Generation/internal/domain"
)

// maxUploadBytes caps the product photo size.
const maxUploadBytes = 16 << 20

// StudioUpload accepts a product photo as the "image" part of a multipart
// form and resets the session to ready.
func (a *App) StudioUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("image")
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "image file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "failed to read image")
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		a.Logger.Debug().Str("mime", mimeType).Str("filename", header.Filename).Msg("rejected non-image upload")
		a.error(w, http.StatusBadRequest, "invalid_file", "please upload an image file")
		return
	}

	snap, err := a.Session.SetProduct(domain.ProductImage{
		Base64:   base64.StdEncoding.EncodeToString(data),
		MimeType: mimeType,
	})
	switch {
	case errors.Is(err, domain.ErrUnsupportedImageType):
		a.error(w, http.StatusBadRequest, "invalid_file", "please upload an image file")
		return
	case errors.Is(err, domain.ErrGenerationInFlight):
		a.error(w, http.StatusConflict, "generation_in_flight", "a generation is already running")
		return
	case err != nil:
		a.error(w, http.StatusInternalServerError, "internal", "failed to accept image")
		return
	}
	a.json(w, http.StatusOK, snap)
}

// StudioGenerate triggers one generation with the posted configuration.
func (a *App) StudioGenerate(w http.ResponseWriter, r *http.Request) {
	var cfg domain.ModelConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	applyDefaults(&cfg)

	snap, err := a.Session.Generate(r.Context(), cfg)
	switch {
	case errors.Is(err, domain.ErrGenerationInFlight):
		a.error(w, http.StatusConflict, "generation_in_flight", "a generation is already running")
		return
	case errors.Is(err, domain.ErrNoProductImage):
		a.json(w, http.StatusUnprocessableEntity, snap)
		return
	case err != nil:
		// Upstream failure; the snapshot carries the generalized message.
		a.json(w, http.StatusBadGateway, snap)
		return
	}
	a.json(w, http.StatusOK, snap)
}

// StudioState reports the current session snapshot.
func (a *App) StudioState(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, a.Session.Snapshot())
}

func applyDefaults(cfg *domain.ModelConfig) {
	def := domain.DefaultModelConfig()
	if cfg.Gender == "" {
		cfg.Gender = def.Gender
	}
	if cfg.Age == "" {
		cfg.Age = def.Age
	}
	if cfg.Ethnicity == "" {
		cfg.Ethnicity = def.Ethnicity
	}
	if cfg.Setting == "" {
		cfg.Setting = def.Setting
	}
	if cfg.Details == "" {
		cfg.Details = def.Details
	}
}
