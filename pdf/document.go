package pdf

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

func init() {
	// Configuration is held in memory; the service never writes a pdfcpu config dir.
	api.DisableConfigDir()
}

// Input is one uploaded document.
type Input struct {
	Name string
	Data []byte
}

// Document is a decoded PDF.
type Document struct {
	ctx *model.Context
}

// newConfiguration returns the read configuration used for every document.
// Relaxed validation accepts the slightly broken files common in the wild.
func newConfiguration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// Decode reads and validates a PDF held in memory.
func Decode(data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}

	ctx, err := api.ReadContext(bytes.NewReader(data), newConfiguration())
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF: %w", err)
	}
	if err := api.ValidateContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to validate PDF: %w", err)
	}

	return &Document{ctx: ctx}, nil
}

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int {
	return d.ctx.PageCount
}

// Extract copies the pages of r, in order, into a new document.
func (d *Document) Extract(r PageRange) (*Document, error) {
	if r.Start < 0 || r.End >= d.PageCount() || r.Start > r.End {
		return nil, fmt.Errorf("page range %s outside document of %d pages", r, d.PageCount())
	}

	pages := make([]int, 0, r.Pages())
	for i := r.Start; i <= r.End; i++ {
		pages = append(pages, i+1)
	}

	ctx, err := pdfcpu.ExtractPages(d.ctx, pages, false)
	if err != nil {
		return nil, fmt.Errorf("failed to extract pages %s: %w", r, err)
	}
	// The extracted page tree carries its Count but the context does not.
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("failed to count extracted pages %s: %w", r, err)
	}
	return &Document{ctx: ctx}, nil
}

// Encode serializes the document to w.
func (d *Document) Encode(w io.Writer) error {
	if err := api.WriteContext(d.ctx, w); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}
