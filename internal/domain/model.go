package domain

import "time"

// ProductImage is a user-supplied product photo held as its base64 payload
// plus the declared media type.
type ProductImage struct {
	Base64   string `json:"base64"`
	MimeType string `json:"mime_type"`
}

// ModelConfig describes the synthetic model and scene to composite the
// product onto. Fields are free strings; the UI constrains them to the
// option catalog below.
type ModelConfig struct {
	Gender    string `json:"gender"`
	Age       string `json:"age"`
	Ethnicity string `json:"ethnicity"`
	Setting   string `json:"setting"`
	Details   string `json:"details"`
}

// GeneratedImage is the outcome of one successful generation call. ImageURL
// is a data URL; Description is the model's accompanying text, if any.
type GeneratedImage struct {
	ImageURL    string `json:"image_url"`
	Description string `json:"description"`
}

// GalleryImage is one persisted generation record as read back for display.
type GalleryImage struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	ImageURL  string    `json:"image_url"`
	Prompt    string    `json:"prompt"`
}

// Option catalog offered by the configurator.
var (
	Genders = []string{"Female", "Male", "Non-binary"}

	Ages = []string{"18-25", "25-35", "35-45", "45+"}

	Ethnicities = []string{
		"Caucasian",
		"East Asian",
		"South Asian",
		"Hispanic",
		"Black",
		"Middle Eastern",
		"Mixed Ethnicity",
	}

	Settings = []string{
		"Clean studio background (white)",
		"Clean studio background (grey)",
		"Vibrant outdoor city street",
		"Sunny beach setting",
		"Cozy indoor cafe",
		"Modern minimalist home",
		"Lush green park",
	}
)

// DefaultModelConfig returns the configuration preselected in the UI.
func DefaultModelConfig() ModelConfig {
	return ModelConfig{
		Gender:    Genders[0],
		Age:       Ages[1],
		Ethnicity: Ethnicities[0],
		Setting:   Settings[0],
		Details:   "smiling, looking at camera, professional lighting",
	}
}
