// Package inspect validates document content before publication.
package inspect

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/quantmind-br/docmanifest/internal/domain"
)

// Ensure PDFInspector implements domain.Inspector
var _ domain.Inspector = (*PDFInspector)(nil)

// PDFInspector validates PDF structure with pdfcpu and reports page counts
type PDFInspector struct {
	conf *model.Configuration
}

// NewPDFInspector creates an inspector. Strict mode rejects files that only
// relaxed validation would accept.
func NewPDFInspector(strict bool) *PDFInspector {
	// Keep pdfcpu from creating a config directory under the user's home
	api.DisableConfigDir()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if strict {
		conf.ValidationMode = model.ValidationStrict
	}

	return &PDFInspector{conf: conf}
}

// Inspect validates the PDF at path and returns its page count
func (i *PDFInspector) Inspect(path string) (int, error) {
	if err := api.ValidateFile(path, i.conf); err != nil {
		return 0, fmt.Errorf("%w: %s: %v", domain.ErrInvalidDocument, path, err)
	}

	pages, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", domain.ErrInvalidDocument, path, err)
	}

	return pages, nil
}
