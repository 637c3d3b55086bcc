package pdf

import (
	"fmt"
	"io"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Reader provides page-level access to one PDF document
type Reader interface {
	PageCount() int
	PageText(pageNr int) (string, error)
}

// Document is a pdfcpu-backed Reader
type Document struct {
	ctx *pdfmodel.Context
}

// Open reads and validates a PDF file
func Open(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}
	defer func() { _ = f.Close() }()

	conf := pdfmodel.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return nil, fmt.Errorf("read PDF %s: %w", path, err)
	}
	return &Document{ctx: ctx}, nil
}

// PageCount returns the number of pages
func (d *Document) PageCount() int {
	return d.ctx.PageCount
}

// PageText extracts the text of one 1-based page from its content stream.
// Extraction is best effort: scanned pages and exotic encodings yield
// little or no text, which is why the vision path exists.
func (d *Document) PageText(pageNr int) (string, error) {
	if pageNr < 1 || pageNr > d.ctx.PageCount {
		return "", fmt.Errorf("page %d out of range (1..%d)", pageNr, d.ctx.PageCount)
	}
	r, err := pdfcpu.ExtractPageContent(d.ctx, pageNr)
	if err != nil {
		return "", fmt.Errorf("extract page %d content: %w", pageNr, err)
	}
	if r == nil {
		return "", nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read page %d content: %w", pageNr, err)
	}
	return textFromContentStream(data), nil
}
