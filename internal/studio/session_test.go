package studio

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/png"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/peteliu66/Tmall-Model-Generation/internal/dataurl"
	"github.com/peteliu66/Tmall-Model-Generation/internal/domain"
)

type fakeGenerator struct {
	mu     sync.Mutex
	calls  int
	result *domain.GeneratedImage
	err    error
	block  chan struct{}
}

func (f *fakeGenerator) GenerateModelImage(ctx context.Context, img domain.ProductImage, cfg domain.ModelConfig) (*domain.GeneratedImage, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeGenerator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type uploadCall struct {
	dataURL string
	cfg     domain.ModelConfig
}

type fakePersister struct {
	mu        sync.Mutex
	uploads   []uploadCall
	uploadErr error
	listCalls int
	gallery   []domain.GalleryImage
}

func (f *fakePersister) Upload(ctx context.Context, imageDataURL string, cfg domain.ModelConfig) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, uploadCall{dataURL: imageDataURL, cfg: cfg})
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	return "http://example.com/1.png", nil
}

func (f *fakePersister) ListRecent(ctx context.Context) []domain.GalleryImage {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	return f.gallery
}

func (f *fakePersister) listCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

func newTestSession(gen *fakeGenerator, per *fakePersister) *Session {
	return NewSession(context.Background(), gen, per, zerolog.New(io.Discard))
}

func encodePNG(t *testing.T, w, h int) domain.ProductImage {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return domain.ProductImage{
		Base64:   base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType: "image/png",
	}
}

func TestNewSessionLoadsGallery(t *testing.T) {
	per := &fakePersister{gallery: []domain.GalleryImage{{ID: 1}}}
	s := newTestSession(&fakeGenerator{}, per)

	if per.listCount() != 1 {
		t.Fatalf("expected initial gallery load, got %d calls", per.listCount())
	}
	snap := s.Snapshot()
	if snap.Phase != PhaseIdle {
		t.Fatalf("phase = %q, want idle", snap.Phase)
	}
	if len(snap.Gallery) != 1 {
		t.Fatalf("gallery not cached: %+v", snap.Gallery)
	}
}

func TestSetProductRejectsNonImage(t *testing.T) {
	s := newTestSession(&fakeGenerator{}, &fakePersister{})

	_, err := s.SetProduct(domain.ProductImage{Base64: "aGk=", MimeType: "application/pdf"})
	if !errors.Is(err, domain.ErrUnsupportedImageType) {
		t.Fatalf("err = %v, want ErrUnsupportedImageType", err)
	}
	if s.Snapshot().Phase != PhaseIdle {
		t.Fatal("rejected upload must not change phase")
	}
}

func TestGenerateWithoutImageFailsValidation(t *testing.T) {
	gen := &fakeGenerator{}
	s := newTestSession(gen, &fakePersister{})

	snap, err := s.Generate(context.Background(), domain.DefaultModelConfig())
	if !errors.Is(err, domain.ErrNoProductImage) {
		t.Fatalf("err = %v, want ErrNoProductImage", err)
	}
	if snap.Phase != PhaseFailed || snap.Error == "" {
		t.Fatalf("expected failed phase with message, got %+v", snap)
	}
	if gen.callCount() != 0 {
		t.Fatalf("generator must not be called, got %d calls", gen.callCount())
	}
}

func TestGenerateFailureSetsGeneralizedMessage(t *testing.T) {
	gen := &fakeGenerator{err: domain.ErrNoImageReturned}
	per := &fakePersister{}
	s := newTestSession(gen, per)

	if _, err := s.SetProduct(encodePNG(t, 4, 4)); err != nil {
		t.Fatalf("SetProduct failed: %v", err)
	}
	snap, err := s.Generate(context.Background(), domain.DefaultModelConfig())
	if !errors.Is(err, domain.ErrNoImageReturned) {
		t.Fatalf("err = %v, want ErrNoImageReturned", err)
	}
	if snap.Phase != PhaseFailed {
		t.Fatalf("phase = %q, want failed", snap.Phase)
	}
	if snap.Error != FailureMessage {
		t.Fatalf("error message = %q, want generalized message", snap.Error)
	}
	if len(per.uploads) != 0 {
		t.Fatal("failed generation must not be persisted")
	}
}

func TestGenerateBlocksConcurrentTrigger(t *testing.T) {
	gen := &fakeGenerator{
		result: &domain.GeneratedImage{ImageURL: dataurl.EncodeBytes("image/png", []byte("x"))},
		block:  make(chan struct{}),
	}
	s := newTestSession(gen, &fakePersister{})
	if _, err := s.SetProduct(encodePNG(t, 4, 4)); err != nil {
		t.Fatalf("SetProduct failed: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := s.Generate(context.Background(), domain.DefaultModelConfig()); err != nil {
			t.Errorf("first Generate failed: %v", err)
		}
	}()

	// Wait until the first trigger is in flight.
	deadline := time.Now().Add(5 * time.Second)
	for s.Snapshot().Phase != PhaseGenerating {
		if time.Now().After(deadline) {
			t.Fatal("first trigger never reached generating phase")
		}
		time.Sleep(time.Millisecond)
	}
	if _, err := s.Generate(context.Background(), domain.DefaultModelConfig()); !errors.Is(err, domain.ErrGenerationInFlight) {
		t.Fatalf("err = %v, want ErrGenerationInFlight", err)
	}
	if gen.callCount() != 1 {
		t.Fatalf("generator called %d times, want 1", gen.callCount())
	}

	close(gen.block)
	<-done
}

func TestGenerateUploadFailureDoesNotFailAction(t *testing.T) {
	gen := &fakeGenerator{result: &domain.GeneratedImage{
		ImageURL:    dataurl.EncodeBytes("image/png", []byte("x")),
		Description: "ok",
	}}
	per := &fakePersister{uploadErr: errors.New("storage down")}
	s := newTestSession(gen, per)
	if _, err := s.SetProduct(encodePNG(t, 4, 4)); err != nil {
		t.Fatalf("SetProduct failed: %v", err)
	}

	before := per.listCount()
	snap, err := s.Generate(context.Background(), domain.DefaultModelConfig())
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if snap.Phase != PhaseComplete {
		t.Fatalf("phase = %q, want complete", snap.Phase)
	}
	if per.listCount() != before+1 {
		t.Fatal("gallery must be refreshed even when persistence fails")
	}
}

func TestGenerateEndToEnd(t *testing.T) {
	generated := dataurl.EncodeBytes("image/png", []byte{1, 2, 3, 4})
	gen := &fakeGenerator{result: &domain.GeneratedImage{
		ImageURL:    generated,
		Description: "A smiling model",
	}}
	per := &fakePersister{}
	s := newTestSession(gen, per)

	if _, err := s.SetProduct(encodePNG(t, 10, 10)); err != nil {
		t.Fatalf("SetProduct failed: %v", err)
	}
	cfg := domain.ModelConfig{
		Gender:    "Female",
		Age:       "25-35",
		Ethnicity: "Caucasian",
		Setting:   "Clean studio background (white)",
		Details:   "smiling",
	}

	listsBefore := per.listCount()
	snap, err := s.Generate(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	if snap.Phase != PhaseComplete || snap.Result == nil {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if !strings.HasPrefix(snap.Result.ImageURL, "data:image/png;base64,") {
		t.Fatalf("image url prefix mismatch: %q", snap.Result.ImageURL)
	}
	if snap.Result.Description != "A smiling model" {
		t.Fatalf("description = %q", snap.Result.Description)
	}

	if len(per.uploads) != 1 {
		t.Fatalf("persister invoked %d times, want 1", len(per.uploads))
	}
	if per.uploads[0].dataURL != generated {
		t.Fatalf("persisted data url mismatch: %q", per.uploads[0].dataURL)
	}
	if per.uploads[0].cfg != cfg {
		t.Fatalf("persisted config mismatch: %+v", per.uploads[0].cfg)
	}
	if per.listCount() != listsBefore+1 {
		t.Fatalf("gallery refetched %d times after generation, want 1", per.listCount()-listsBefore)
	}
}

func TestSetProductClearsPriorResult(t *testing.T) {
	gen := &fakeGenerator{result: &domain.GeneratedImage{
		ImageURL: dataurl.EncodeBytes("image/png", []byte("x")),
	}}
	s := newTestSession(gen, &fakePersister{})
	if _, err := s.SetProduct(encodePNG(t, 4, 4)); err != nil {
		t.Fatalf("SetProduct failed: %v", err)
	}
	if _, err := s.Generate(context.Background(), domain.DefaultModelConfig()); err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	snap, err := s.SetProduct(encodePNG(t, 8, 8))
	if err != nil {
		t.Fatalf("SetProduct failed: %v", err)
	}
	if snap.Phase != PhaseReady || snap.Result != nil || snap.Error != "" {
		t.Fatalf("upload must reset to ready with no result/error: %+v", snap)
	}
}
