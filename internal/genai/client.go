// Package genai calls the Gemini generateContent API to composite an
// uploaded product photo onto a synthetic model image.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/peteliu66/Tmall-Model-Generation/internal/dataurl"
	"github.com/peteliu66/Tmall-Model-Generation/internal/domain"
	"github.com/peteliu66/Tmall-Model-Generation/internal/infra"
	"github.com/peteliu66/Tmall-Model-Generation/internal/prompt"
)

// DefaultDescription is used when the response carries no text part.
const DefaultDescription = "AI-generated model image."

// Options controls how the Gemini client is configured.
type Options struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Client is a thin facade over the Gemini REST API. It is stateless; every
// call is a single outbound request with no retries.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *infra.Logger
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts,omitempty"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

type geminiGenerationConfig struct {
	ResponseModalities []string `json:"responseModalities,omitempty"`
}

type geminiGenerateContentRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason,omitempty"`
}

type geminiGenerateContentResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

type geminiErrorResponse struct {
	Error struct {
		Code    int    `json:"code,omitempty"`
		Message string `json:"message,omitempty"`
	} `json:"error"`
}

// NewClient constructs a Gemini client. A missing API key is a construction
// error so the condition is fatal at startup rather than discovered on the
// first generation. Callers may provide a nil HTTP client; a reusable one
// with a generous timeout will be created.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("genai: api key is required")
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 120 * time.Second}
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}

	model := opts.Model
	if model == "" {
		model = "gemini-2.5-flash-image-preview"
	}

	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}

	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		model:      model,
		httpClient: client,
		logger:     logger,
	}, nil
}

// Model returns the configured Gemini model identifier.
func (c *Client) Model() string {
	return c.model
}

// GenerateModelImage sends the product image and the built instruction in a
// single multi-modal request and extracts the generated image plus optional
// description from the response.
//
// The first inline-binary part becomes a data URL; the first text part
// becomes the description, falling back to DefaultDescription. A response
// without parts fails with domain.ErrInvalidResponse; a response whose parts
// carry no image data fails with domain.ErrNoImageReturned, which usually
// means the request was refused by safety policy.
func (c *Client) GenerateModelImage(ctx context.Context, img domain.ProductImage, cfg domain.ModelConfig) (*domain.GeneratedImage, error) {
	payload := geminiGenerateContentRequest{
		Contents: []geminiContent{
			{
				Role: "user",
				Parts: []geminiPart{
					{InlineData: &geminiInlineData{MimeType: img.MimeType, Data: img.Base64}},
					{Text: prompt.Build(cfg)},
				},
			},
		},
		GenerationConfig: &geminiGenerationConfig{
			ResponseModalities: []string{"IMAGE", "TEXT"},
		},
	}

	var response geminiGenerateContentResponse
	if err := c.invoke(ctx, fmt.Sprintf("/models/%s:generateContent", url.PathEscape(c.model)), payload, &response); err != nil {
		return nil, err
	}

	parts := candidateParts(response)
	if len(parts) == 0 {
		return nil, domain.ErrInvalidResponse
	}

	result := domain.GeneratedImage{Description: DefaultDescription}
	haveText := false
	for _, part := range parts {
		switch {
		case part.InlineData != nil && part.InlineData.Data != "" && result.ImageURL == "":
			mimeType := part.InlineData.MimeType
			if mimeType == "" {
				mimeType = "image/png"
			}
			result.ImageURL = dataurl.Encode(mimeType, part.InlineData.Data)
		case part.Text != "" && !haveText:
			result.Description = part.Text
			haveText = true
		}
	}

	if result.ImageURL == "" {
		return nil, domain.ErrNoImageReturned
	}

	c.logger.Debug().
		Str("model", c.model).
		Str("mime", img.MimeType).
		Msg("genai: generated model image")

	return &result, nil
}

func candidateParts(response geminiGenerateContentResponse) []geminiPart {
	if len(response.Candidates) == 0 {
		return nil
	}
	return response.Candidates[0].Content.Parts
}

func (c *Client) invoke(ctx context.Context, path string, payload any, out any) error {
	endpoint := c.baseURL + path
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	q := req.URL.Query()
	q.Set("key", c.apiKey)
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("invoke gemini: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr geminiErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("gemini status %d: %s", resp.StatusCode, apiErr.Error.Message)
		}
		data, _ := io.ReadAll(resp.Body)
		if len(data) > 0 {
			return fmt.Errorf("gemini status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
		}
		return fmt.Errorf("gemini status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode gemini response: %w", err)
	}
	return nil
}
