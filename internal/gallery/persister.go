package gallery

import (
	"context"
	"fmt"
	"time"

	"github.com/peteliu66/Tmall-Model-Generation/internal/dataurl"
	"github.com/peteliu66/Tmall-Model-Generation/internal/domain"
	"github.com/peteliu66/Tmall-Model-Generation/internal/infra"
	"github.com/peteliu66/Tmall-Model-Generation/internal/prompt"
	"github.com/peteliu66/Tmall-Model-Generation/internal/storage"
)

// Persister uploads generated images to the object store and records their
// metadata. Storage success outweighs metadata failure: a failed insert is
// logged and the public URL is still returned.
type Persister struct {
	store   *storage.FileStore
	repo    *Repository
	baseURL string
	logger  infra.Logger
	now     func() time.Time
}

// NewPersister wires the object store and repository behind one persistence
// client.
func NewPersister(store *storage.FileStore, repo *Repository, baseURL string, logger infra.Logger) *Persister {
	return &Persister{
		store:   store,
		repo:    repo,
		baseURL: baseURL,
		logger:  logger,
		now:     time.Now,
	}
}

// Upload decodes a generated image delivered as a data URL, writes it under
// a fresh time-based key and inserts the metadata row. It returns the public
// URL of the stored object. Keys are never overwritten; a collision surfaces
// as an error.
func (p *Persister) Upload(ctx context.Context, imageDataURL string, cfg domain.ModelConfig) (string, error) {
	data, _, err := dataurl.Decode(imageDataURL)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	key := fmt.Sprintf("generated/%d.png", p.now().UnixMilli())
	cleanKey, err := p.store.Write(ctx, key, data)
	if err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}

	publicURL := p.store.PublicURL(p.baseURL, cleanKey)

	if err := p.repo.InsertGeneration(ctx, publicURL, cfg, prompt.Caption(cfg)); err != nil {
		p.logger.Warn().Err(err).Str("key", cleanKey).Msg("gallery: failed to record generation")
	}

	return publicURL, nil
}

// ListRecent reads the gallery listing. It never fails: any error is logged
// and an empty listing is returned.
func (p *Persister) ListRecent(ctx context.Context) []domain.GalleryImage {
	items, err := p.repo.ListRecent(ctx)
	if err != nil {
		p.logger.Error().Err(err).Msg("gallery: failed to list generations")
		return nil
	}
	return items
}

// Disabled is the no-op persistence client used when the database or the
// object store is not configured. Uploads vanish and the gallery is empty,
// but generation itself keeps working.
type Disabled struct {
	logger infra.Logger
}

// NewDisabled constructs the no-op variant.
func NewDisabled(logger infra.Logger) *Disabled {
	return &Disabled{logger: logger}
}

// Upload drops the image and returns no URL.
func (d *Disabled) Upload(ctx context.Context, imageDataURL string, cfg domain.ModelConfig) (string, error) {
	d.logger.Debug().Msg("gallery: persistence disabled, skipping upload")
	return "", nil
}

// ListRecent returns an empty listing.
func (d *Disabled) ListRecent(ctx context.Context) []domain.GalleryImage {
	return nil
}
