// Package studio owns the single-session generation flow: product upload,
// generation trigger, persistence hand-off and the cached gallery view.
package studio

import (
	"context"
	"strings"
	"sync"

	"github.com/peteliu66/Tmall-Model-Generation/internal/domain"
	"github.com/peteliu66/Tmall-Model-Generation/internal/infra"
)

// Phase enumerates the session states. Exactly one phase is active at any
// time, which keeps combinations like "complete with an error" unrepresentable.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseReady      Phase = "ready"
	PhaseGenerating Phase = "generating"
	PhaseComplete   Phase = "complete"
	PhaseFailed     Phase = "failed"
)

// FailureMessage is the single user-facing message for all upstream
// generation failures, safety refusals included.
const FailureMessage = "Image generation failed. Please try again."

// validationMessage is shown when generation is triggered with no image.
const validationMessage = "Please upload a product image first."

// Generator produces a model image from a product photo and configuration.
type Generator interface {
	GenerateModelImage(ctx context.Context, img domain.ProductImage, cfg domain.ModelConfig) (*domain.GeneratedImage, error)
}

// Persister stores generated images and reads the gallery listing back.
type Persister interface {
	Upload(ctx context.Context, imageDataURL string, cfg domain.ModelConfig) (string, error)
	ListRecent(ctx context.Context) []domain.GalleryImage
}

// Session is the orchestrator. All transitions go through its mutex; a
// second generation trigger while one is in flight is rejected here, not
// just by disabling the UI control.
type Session struct {
	generator Generator
	persister Persister
	logger    infra.Logger

	mu      sync.Mutex
	phase   Phase
	product *domain.ProductImage
	config  domain.ModelConfig
	result  *domain.GeneratedImage
	errMsg  string
	gallery []domain.GalleryImage
}

// Snapshot is an immutable view of the session for rendering.
type Snapshot struct {
	Phase      Phase                  `json:"phase"`
	HasProduct bool                   `json:"has_product"`
	Config     domain.ModelConfig     `json:"config"`
	Result     *domain.GeneratedImage `json:"result,omitempty"`
	Error      string                 `json:"error,omitempty"`
	Gallery    []domain.GalleryImage  `json:"gallery"`
}

// NewSession constructs the session and performs the initial gallery load.
func NewSession(ctx context.Context, generator Generator, persister Persister, logger infra.Logger) *Session {
	s := &Session{
		generator: generator,
		persister: persister,
		logger:    logger,
		phase:     PhaseIdle,
		config:    domain.DefaultModelConfig(),
	}
	s.gallery = persister.ListRecent(ctx)
	return s
}

// SetProduct accepts a new product image and resets the session to ready,
// clearing any prior result or error. Non-image media types are rejected.
func (s *Session) SetProduct(img domain.ProductImage) (Snapshot, error) {
	if !strings.HasPrefix(img.MimeType, "image/") {
		return s.Snapshot(), domain.ErrUnsupportedImageType
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseGenerating {
		return s.snapshotLocked(), domain.ErrGenerationInFlight
	}
	s.product = &img
	s.result = nil
	s.errMsg = ""
	s.phase = PhaseReady
	return s.snapshotLocked(), nil
}

// Generate runs one generation: validate, call the generation client, then
// hand the result to the persister and refresh the gallery. The persistence
// step is bulkheaded so its failure can neither fail the action nor skip the
// refresh.
func (s *Session) Generate(ctx context.Context, cfg domain.ModelConfig) (Snapshot, error) {
	s.mu.Lock()
	if s.phase == PhaseGenerating {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, domain.ErrGenerationInFlight
	}
	if s.product == nil {
		s.phase = PhaseFailed
		s.result = nil
		s.errMsg = validationMessage
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, domain.ErrNoProductImage
	}
	product := *s.product
	s.config = cfg
	s.phase = PhaseGenerating
	s.result = nil
	s.errMsg = ""
	s.mu.Unlock()

	result, err := s.generator.GenerateModelImage(ctx, product, cfg)
	if err != nil {
		s.logger.Error().Err(err).Msg("studio: generation failed")
		s.mu.Lock()
		s.phase = PhaseFailed
		s.errMsg = FailureMessage
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, err
	}

	s.mu.Lock()
	s.phase = PhaseComplete
	s.result = result
	s.mu.Unlock()

	if _, perr := s.persister.Upload(ctx, result.ImageURL, cfg); perr != nil {
		s.logger.Warn().Err(perr).Msg("studio: failed to persist generated image")
	}
	s.RefreshGallery(ctx)

	return s.Snapshot(), nil
}

// RefreshGallery re-reads the gallery listing into the session cache.
func (s *Session) RefreshGallery(ctx context.Context) []domain.GalleryImage {
	items := s.persister.ListRecent(ctx)
	s.mu.Lock()
	s.gallery = items
	s.mu.Unlock()
	return items
}

// Gallery returns the cached gallery listing.
func (s *Session) Gallery() []domain.GalleryImage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.GalleryImage(nil), s.gallery...)
}

// Snapshot returns the current session view.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		Phase:      s.phase,
		HasProduct: s.product != nil,
		Config:     s.config,
		Result:     s.result,
		Error:      s.errMsg,
		Gallery:    append([]domain.GalleryImage(nil), s.gallery...),
	}
}
