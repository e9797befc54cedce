package services

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"doc-chat/internal/config"
	"doc-chat/internal/logger"
)

// DocumentProcessor turns an uploaded document into normalized text.
// Dispatch goes through a per-kind extractor table so that new
// formats slot in without touching the pipeline.
type DocumentProcessor struct {
	sanitizer  *TextSanitizer
	extractors map[FileKind]Extractor
}

func NewDocumentProcessor(sanitizer *TextSanitizer, cfg config.ExtractionConfig) *DocumentProcessor {
	var ocr *ocrEngine
	if cfg.OCREnabled {
		ocr = newOCREngine(cfg.OCRLanguage)
	}
	return &DocumentProcessor{
		sanitizer: sanitizer,
		extractors: map[FileKind]Extractor{
			KindPDF:  &pdfExtractor{textFallback: cfg.PDFTextFallback, ocr: ocr},
			KindDOCX: docxExtractor{},
			KindPPTX: pptxExtractor{},
			KindXLSX: xlsxExtractor{},
		},
	}
}

// Process persists the uploaded bytes to a transient file, runs the
// extractor matching the file kind and normalizes the result. The
// transient file is removed on every exit path; a removal failure is
// logged, never escalated.
func (p *DocumentProcessor) Process(filename string, content []byte) (string, error) {
	kind, err := KindFromFilename(filename)
	if err != nil {
		return "", err
	}
	extractor, ok := p.extractors[kind]
	if !ok {
		return "", &UnsupportedTypeError{Extension: string(kind)}
	}

	tempFile, err := os.CreateTemp("", "upload-*."+string(kind))
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()
	defer func() {
		if err := os.Remove(tempPath); err != nil {
			logger.WithFields(logrus.Fields{
				"path":  tempPath,
				"error": err.Error(),
			}).Warn("Failed to remove temp file")
		}
	}()

	if _, err := tempFile.Write(content); err != nil {
		tempFile.Close()
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"file":  filename,
		"kind":  string(kind),
		"bytes": len(content),
	}).Info("Extracting text from uploaded document")

	raw, err := extractor.Extract(tempPath)
	if err != nil {
		return "", &ExtractionError{Kind: kind, Err: err}
	}

	text := p.sanitizer.Normalize(raw)
	if text == "" {
		return "", ErrEmptyExtraction
	}

	logger.WithFields(logrus.Fields{
		"file":  filename,
		"kind":  string(kind),
		"chars": len(text),
	}).Info("Successfully extracted document text")

	return text, nil
}
