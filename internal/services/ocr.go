package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/go-fitz"
	"github.com/otiai10/gosseract/v2"
	"github.com/sirupsen/logrus"

	"doc-chat/internal/logger"
)

// ocrEngine rasterizes PDF pages and runs them through tesseract.
// It is the last-resort pass for scanned documents.
type ocrEngine struct {
	language string
}

func newOCREngine(language string) *ocrEngine {
	if language == "" {
		language = "eng"
	}
	return &ocrEngine{language: language}
}

func (o *ocrEngine) RecognizePDF(path string) (string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF for OCR: %w", err)
	}
	defer doc.Close()

	tempDir, err := os.MkdirTemp("", "pdf-ocr-*")
	if err != nil {
		return "", fmt.Errorf("failed to create OCR temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	client := gosseract.NewClient()
	defer client.Close()
	if err := client.SetLanguage(o.language); err != nil {
		return "", fmt.Errorf("failed to set OCR language: %w", err)
	}

	var pages []string
	for i := 0; i < doc.NumPage(); i++ {
		img, err := doc.Image(i)
		if err != nil {
			logger.WithFields(logrus.Fields{
				"page":  i,
				"error": err.Error(),
			}).Warn("Failed to rasterize PDF page")
			continue
		}

		// Upscale, grayscale and sharpen before recognition; low
		// resolution scans OCR poorly without it.
		prepared := imaging.Sharpen(imaging.Grayscale(imaging.Resize(img, 0, 2000, imaging.Lanczos)), 1.0)

		pagePath := filepath.Join(tempDir, fmt.Sprintf("page-%d.png", i))
		if err := imaging.Save(prepared, pagePath); err != nil {
			logger.WithFields(logrus.Fields{
				"page":  i,
				"error": err.Error(),
			}).Warn("Failed to save preprocessed page image")
			continue
		}

		if err := client.SetImage(pagePath); err != nil {
			logger.WithFields(logrus.Fields{
				"page":  i,
				"error": err.Error(),
			}).Warn("Failed to load page image into OCR")
			continue
		}
		pageText, err := client.Text()
		if err != nil {
			logger.WithFields(logrus.Fields{
				"page":  i,
				"error": err.Error(),
			}).Warn("OCR failed for page")
			continue
		}
		if cleaned := strings.TrimSpace(pageText); cleaned != "" {
			pages = append(pages, cleaned)
		}
	}

	if len(pages) == 0 {
		return "", fmt.Errorf("no text recognized on any page")
	}
	return strings.Join(pages, "\n"), nil
}
