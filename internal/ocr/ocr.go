package ocr

import (
	"context"
	"io"
)

// Result is the outcome of one text extraction pass.
type Result struct {
	Text       string
	Confidence float64
}

// TextExtractor pulls machine-readable text out of an uploaded plan file.
type TextExtractor interface {
	Extract(ctx context.Context, r io.Reader, fileName, contentType string) (*Result, error)
}
