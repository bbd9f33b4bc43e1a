package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"regexp"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// HTTPExtractor sends files to an external OCR service over HTTP. The service
// is expected to accept a multipart upload under the "file" field and return
// {"text": "...", "confidence": 0.0-1.0}.
type HTTPExtractor struct {
	endpoint string
	client   *http.Client
}

// NewHTTPExtractor builds an extractor against the OCR service endpoint.
func NewHTTPExtractor(endpoint string, timeout time.Duration) *HTTPExtractor {
	return &HTTPExtractor{
		endpoint: strings.TrimRight(endpoint, "/"),
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

var _ TextExtractor = (*HTTPExtractor)(nil)

type extractResponse struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Error      string  `json:"error"`
}

// Extract uploads the file and returns the recognized text. When the service
// does not report a confidence score, one is estimated from the text itself.
func (e *HTTPExtractor) Extract(ctx context.Context, r io.Reader, fileName, contentType string) (*Result, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", fileName)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, err
	}
	if err := w.WriteField("content_type", contentType); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint+"/extract", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ocr request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ocr service returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var er extractResponse
	if err := json.Unmarshal(body, &er); err != nil {
		return nil, fmt.Errorf("failed to decode ocr response: %w", err)
	}
	if er.Error != "" {
		return nil, fmt.Errorf("ocr extraction failed: %s", er.Error)
	}

	confidence := er.Confidence
	if confidence == 0 && er.Text != "" {
		confidence = EstimateConfidence(er.Text)
	}
	return &Result{Text: er.Text, Confidence: confidence}, nil
}

var (
	garbledRe      = regexp.MustCompile(`[^\w\s.,;:'"()\[\]{}?!@#$%^&*+=<>|\\/-]{10,}`)
	missingSpaceRe = regexp.MustCompile(`[a-zA-Z]{20,}`)
)

var architecturalTerms = []string{
	"floor", "wall", "ceiling", "roof", "foundation",
	"dimension", "height", "width", "length", "area",
}

// EstimateConfidence scores extracted text between 0 and 1 based on length,
// common OCR artifacts, and the presence of building vocabulary.
func EstimateConfidence(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}

	confidence := 0.5
	if garbledRe.MatchString(text) {
		confidence -= 0.2
	}
	if missingSpaceRe.MatchString(text) {
		confidence -= 0.2
	}
	if len(text) > 100 {
		confidence += 0.3
	}

	lower := strings.ToLower(text)
	terms := 0
	for _, t := range architecturalTerms {
		if strings.Contains(lower, t) {
			terms++
		}
	}
	bonus := float64(terms) * 0.03
	if bonus > 0.3 {
		bonus = 0.3
	}
	confidence += bonus

	if confidence < 0 {
		return 0
	}
	if confidence > 1 {
		return 1
	}
	return confidence
}
