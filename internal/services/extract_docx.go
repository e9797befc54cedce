package services

import (
	"strings"

	"github.com/unidoc/unioffice/document"
)

// docxExtractor pulls raw text out of a Word document, discarding
// formatting and structure entirely.
type docxExtractor struct{}

func (docxExtractor) Extract(path string) (string, error) {
	doc, err := document.Open(path)
	if err != nil {
		return "", err
	}
	defer doc.Close()

	var b strings.Builder
	for _, para := range doc.Paragraphs() {
		for _, run := range para.Runs() {
			b.WriteString(run.Text())
		}
		b.WriteString("\n")
	}

	return b.String(), nil
}
