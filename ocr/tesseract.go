package ocr

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"leadfilter/config"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract extracts text with a local Tesseract install via gosseract.
type Tesseract struct {
	language      string
	client        *http.Client
	clientFactory func() *gosseract.Client
}

// NewTesseract builds a local Tesseract provider from configuration.
func NewTesseract(conf config.OCR) *Tesseract {
	return &Tesseract{
		language: conf.Language,
		client: &http.Client{
			Timeout: time.Duration(conf.Timeout) * time.Second,
		},
		clientFactory: gosseract.NewClient,
	}
}

// Text downloads the image and runs it through Tesseract.
func (t *Tesseract) Text(imageURL string) (string, error) {
	resp, err := t.client.Get(imageURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image fetch returned status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	client := t.clientFactory()
	defer client.Close()

	if err := client.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("set image: %v", err)
	}
	if t.language != "" {
		if err := client.SetLanguage(t.language); err != nil {
			return "", fmt.Errorf("set language: %v", err)
		}
	}
	return client.Text()
}
