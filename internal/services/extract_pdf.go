package services

import (
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"
	"github.com/sirupsen/logrus"

	"doc-chat/internal/logger"
)

// pdfExtractor reads PDF text page by page, preserving page order.
// When direct extraction yields nothing it can run a second text pass
// through mupdf and, for scanned documents, a final OCR pass.
type pdfExtractor struct {
	textFallback bool
	ocr          *ocrEngine
}

func (e *pdfExtractor) Extract(path string) (text string, err error) {
	// ledongthuc/pdf panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("pdf parser failure: %v", r)
		}
	}()

	text, err = extractPDFText(path)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) != "" {
		return text, nil
	}

	if e.textFallback {
		fallback, fbErr := extractPDFTextFitz(path)
		if fbErr != nil {
			logger.WithFields(logrus.Fields{
				"path":  path,
				"error": fbErr.Error(),
			}).Warn("PDF fallback text pass failed")
		} else if strings.TrimSpace(fallback) != "" {
			return fallback, nil
		}
	}

	if e.ocr != nil {
		recognized, ocrErr := e.ocr.RecognizePDF(path)
		if ocrErr != nil {
			logger.WithFields(logrus.Fields{
				"path":  path,
				"error": ocrErr.Error(),
			}).Warn("PDF OCR pass failed")
		} else if strings.TrimSpace(recognized) != "" {
			return recognized, nil
		}
	}

	return text, nil
}

func extractPDFText(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	numPages := reader.NumPage()
	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// An unreadable page contributes an empty segment so
			// that page ordering is preserved.
			logger.WithFields(logrus.Fields{
				"page":  i,
				"error": err.Error(),
			}).Warn("Failed to extract text from PDF page")
			pages = append(pages, "")
			continue
		}
		pages = append(pages, pageText)
	}

	return strings.Join(pages, "\n"), nil
}

func extractPDFTextFitz(path string) (string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return "", err
	}
	defer doc.Close()

	pages := make([]string, 0, doc.NumPage())
	for i := 0; i < doc.NumPage(); i++ {
		pageText, err := doc.Text(i)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, pageText)
	}

	return strings.Join(pages, "\n"), nil
}
