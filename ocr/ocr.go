// Package ocr extracts text from image-only lead posts. Screenshots of
// sourcing tools carry the same Eligibility/ROI lines as text posts, so a
// provider turns the image back into text the filter can evaluate.
package ocr

import (
	"fmt"

	"leadfilter/config"
)

// Provider turns an image URL into extracted text. An empty string with a
// nil error means the provider ran but found nothing usable.
type Provider interface {
	Text(imageURL string) (string, error)
}

// Provider names accepted in configuration.
const (
	ProviderOCRSpace  = "ocrspace"
	ProviderTesseract = "tesseract"
)

// NewProvider builds the configured provider. A blank provider name
// disables OCR and returns nil.
func NewProvider(conf config.OCR) (Provider, error) {
	switch conf.Provider {
	case "":
		return nil, nil
	case ProviderOCRSpace:
		if conf.APIKey == "" {
			return nil, fmt.Errorf("ocrspace provider requires an API key")
		}
		return NewOCRSpace(conf), nil
	case ProviderTesseract:
		return NewTesseract(conf), nil
	default:
		return nil, fmt.Errorf("unknown OCR provider '%s'", conf.Provider)
	}
}
