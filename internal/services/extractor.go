package services

import (
	"fmt"
	"strings"
)

// FileKind is a document format recognized by the ingestion pipeline.
type FileKind string

const (
	KindPDF  FileKind = "pdf"
	KindDOCX FileKind = "docx"
	KindPPTX FileKind = "pptx"
	KindXLSX FileKind = "xlsx"
)

// Extractor converts a document on disk into plain text. Extraction is
// best-effort: fidelity of the result is not guaranteed, but parser
// failures must surface as errors rather than partial garbage.
type Extractor interface {
	Extract(path string) (string, error)
}

// KindFromFilename derives the FileKind from the file name extension,
// case-insensitively. An empty name is invalid input; an extension
// outside the allowed set is rejected before any extraction work. A
// name without a dot is rejected as a whole, so the error names the
// token that was refused.
func KindFromFilename(name string) (FileKind, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty filename", ErrInvalidInput)
	}
	ext := strings.ToLower(trimmed)
	if idx := strings.LastIndex(trimmed, "."); idx >= 0 {
		ext = strings.ToLower(trimmed[idx+1:])
	}
	switch kind := FileKind(ext); kind {
	case KindPDF, KindDOCX, KindPPTX, KindXLSX:
		return kind, nil
	default:
		return "", &UnsupportedTypeError{Extension: ext}
	}
}
