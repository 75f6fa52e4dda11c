// Package gallery records generated images and reads them back for the
// newest-first gallery listing.
//
// Expected schema:
//
//	CREATE TABLE generations (
//	    id         bigserial PRIMARY KEY,
//	    created_at timestamptz NOT NULL DEFAULT now(),
//	    image_url  text NOT NULL,
//	    config     jsonb NOT NULL,
//	    prompt     text NOT NULL
//	);
package gallery

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/peteliu66/Tmall-Model-Generation/internal/domain"
)

// RecentLimit caps the gallery listing.
const RecentLimit = 20

// DBTX is the querying contract satisfied by pgxpool.Pool and by test stubs.
type DBTX interface {
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
}

// Repository persists generation records in PostgreSQL.
type Repository struct {
	db DBTX
}

// NewRepository constructs a repository over the given querier.
func NewRepository(db DBTX) *Repository {
	return &Repository{db: db}
}

// InsertGeneration records one generated image: its public URL, the full
// configuration as JSON and the human-readable caption.
func (r *Repository) InsertGeneration(ctx context.Context, imageURL string, cfg domain.ModelConfig, caption string) error {
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	_, err = r.db.Exec(ctx, `
INSERT INTO generations (image_url, config, prompt)
VALUES ($1, $2, $3)
`, imageURL, cfgJSON, caption)
	if err != nil {
		return fmt.Errorf("insert generation: %w", err)
	}
	return nil
}

// ListRecent returns the most recent records, newest first.
func (r *Repository) ListRecent(ctx context.Context) ([]domain.GalleryImage, error) {
	rows, err := r.db.Query(ctx, `
SELECT id, created_at, image_url, prompt
FROM generations
ORDER BY created_at DESC
LIMIT $1
`, RecentLimit)
	if err != nil {
		return nil, fmt.Errorf("list generations: %w", err)
	}
	defer rows.Close()

	var items []domain.GalleryImage
	for rows.Next() {
		var item domain.GalleryImage
		if err := rows.Scan(&item.ID, &item.CreatedAt, &item.ImageURL, &item.Prompt); err != nil {
			return nil, fmt.Errorf("scan generation: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
