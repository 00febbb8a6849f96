// Package pdftest builds small, valid PDF documents for tests.
package pdftest

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// BaseWidth is the MediaBox width of the first page. Page i (0-based) is
// BaseWidth+i points wide so tests can check page order after a transform.
const BaseWidth = 200

// Height is the MediaBox height of every page.
const Height = 300

func init() {
	api.DisableConfigDir()
}

// Document returns a PDF with pages pages, each drawing its own line.
func Document(pages int) []byte {
	return build(pages, func(i int) string {
		return fmt.Sprintf("0 0 m %d %d l S", 10+i, 10+i)
	})
}

// SharedContent returns a PDF whose pages draw identical content held in
// separate stream objects.
func SharedContent(pages int) []byte {
	content := make([]byte, 0, 4096)
	for i := 0; i < 200; i++ {
		content = fmt.Appendf(content, "%d %d m %d %d l S\n", i, i*7%300, i*3%200, i)
	}
	return build(pages, func(int) string { return string(content) })
}

// Corrupt returns bytes that carry a PDF header but cannot be decoded.
func Corrupt() []byte {
	return []byte("%PDF-1.7\nthis is not a pdf body\n%%EOF\n")
}

func build(pages int, content func(i int) string) []byte {
	ctx, err := pdfcpu.CreateContextWithXRefTable(model.NewDefaultConfiguration(), &types.Dim{Width: BaseWidth, Height: Height})
	if err != nil {
		panic(err)
	}

	pagesRef, err := ctx.Pages()
	if err != nil {
		panic(err)
	}
	pagesDict, err := ctx.DereferenceDict(*pagesRef)
	if err != nil {
		panic(err)
	}

	for i := 0; i < pages; i++ {
		sd, _ := ctx.NewStreamDictForBuf([]byte(content(i)))
		if err := sd.Encode(); err != nil {
			panic(err)
		}
		contentRef, err := ctx.IndRefForNewObject(*sd)
		if err != nil {
			panic(err)
		}

		pageDict := types.Dict(map[string]types.Object{
			"Type":      types.Name("Page"),
			"Parent":    *pagesRef,
			"MediaBox":  types.RectForDim(float64(BaseWidth+i), Height).Array(),
			"Resources": types.NewDict(),
			"Contents":  *contentRef,
		})
		pageRef, err := ctx.IndRefForNewObject(pageDict)
		if err != nil {
			panic(err)
		}
		if err := model.AppendPageTree(pageRef, 1, pagesDict); err != nil {
			panic(err)
		}
	}
	ctx.PageCount = pages

	var buf bytes.Buffer
	if err := api.WriteContext(ctx, &buf); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
