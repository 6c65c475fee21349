package ocr

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"leadfilter/config"
)

const ocrSpaceEndpoint = "https://api.ocr.space/parse/imageurl"

// OCRSpace extracts text through the hosted OCR.space API.
type OCRSpace struct {
	apiKey   string
	language string
	endpoint string
	client   *http.Client
}

// NewOCRSpace builds an OCR.space provider from configuration.
func NewOCRSpace(conf config.OCR) *OCRSpace {
	return &OCRSpace{
		apiKey:   conf.APIKey,
		language: conf.Language,
		endpoint: ocrSpaceEndpoint,
		client: &http.Client{
			Timeout: time.Duration(conf.Timeout) * time.Second,
		},
	}
}

type ocrSpaceResponse struct {
	IsErroredOnProcessing bool `json:"IsErroredOnProcessing"`
	ParsedResults         []struct {
		ParsedText string `json:"ParsedText"`
	} `json:"ParsedResults"`
}

// Text posts the image URL to the API and returns the parsed text. API-side
// processing errors yield an empty string, matching a post with no text.
func (o *OCRSpace) Text(imageURL string) (string, error) {
	form := url.Values{}
	form.Set("apikey", o.apiKey)
	form.Set("url", imageURL)
	form.Set("OCREngine", "2")
	form.Set("isOverlayRequired", "false")
	form.Set("language", o.language)

	resp, err := o.client.Post(o.endpoint,
		"application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("OCR.space returned status %d", resp.StatusCode)
	}

	var parsed ocrSpaceResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if parsed.IsErroredOnProcessing || len(parsed.ParsedResults) == 0 {
		return "", nil
	}
	return parsed.ParsedResults[0].ParsedText, nil
}
