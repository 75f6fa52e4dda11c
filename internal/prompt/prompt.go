package prompt

import (
	"fmt"

	"github.com/peteliu66/Tmall-Model-Generation/internal/domain"
)

// Build renders the generation instruction for a model configuration. It is
// a pure function: the same configuration always yields the same string.
func Build(cfg domain.ModelConfig) string {
	return fmt.Sprintf(`Create a high-resolution, photorealistic image of a %s year old, %s, %s model.
The model should be wearing the provided product naturally.
The setting is: %s.
Additional details: %s.
The final image should be a professional, commercial-quality product photograph. Focus on the model and the product they are wearing. Do not include any text or logos.`,
		cfg.Age, cfg.Ethnicity, cfg.Gender, cfg.Setting, cfg.Details)
}

// Caption renders the short human-readable summary stored with a gallery
// row. Same content as Build, condensed for display.
func Caption(cfg domain.ModelConfig) string {
	return fmt.Sprintf("A %s %s %s model in a %s setting. Details: %s",
		cfg.Age, cfg.Ethnicity, cfg.Gender, cfg.Setting, cfg.Details)
}
