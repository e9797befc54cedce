package services

import (
	"strings"

	"github.com/unidoc/unioffice/presentation"
	"github.com/unidoc/unioffice/schema/soo/dml"
	"github.com/unidoc/unioffice/schema/soo/pml"
)

// pptxExtractor concatenates the text of every shape that carries a
// text body, across slides in slide order and shapes in shape order.
// Shapes without text are skipped.
type pptxExtractor struct{}

func (pptxExtractor) Extract(path string) (string, error) {
	pres, err := presentation.Open(path)
	if err != nil {
		return "", err
	}
	defer pres.Close()

	var shapes []string
	for _, slide := range pres.Slides() {
		sld := slide.X()
		if sld == nil || sld.CSld == nil || sld.CSld.SpTree == nil {
			continue
		}
		shapes = collectGroupShapeText(sld.CSld.SpTree, shapes)
	}

	return strings.Join(shapes, "\n"), nil
}

func collectGroupShapeText(group *pml.CT_GroupShape, shapes []string) []string {
	for _, choice := range group.Choice {
		for _, sp := range choice.Sp {
			if sp.TxBody == nil {
				continue
			}
			shapes = append(shapes, textBodyText(sp.TxBody))
		}
		for _, nested := range choice.GrpSp {
			shapes = collectGroupShapeText(nested, shapes)
		}
	}
	return shapes
}

func textBodyText(body *dml.CT_TextBody) string {
	paragraphs := make([]string, 0, len(body.P))
	for _, para := range body.P {
		var b strings.Builder
		for _, run := range para.EG_TextRun {
			switch {
			case run.R != nil:
				b.WriteString(run.R.T)
			case run.Fld != nil && run.Fld.T != nil:
				b.WriteString(*run.Fld.T)
			case run.Br != nil:
				b.WriteString("\n")
			}
		}
		paragraphs = append(paragraphs, b.String())
	}
	return strings.Join(paragraphs, "\n")
}
