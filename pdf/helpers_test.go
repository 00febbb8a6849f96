package pdf

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"pdf_tools/pdf/pdftest"
)

func decodeFixture(t *testing.T, pages int) *Document {
	t.Helper()
	doc, err := Decode(pdftest.Document(pages))
	require.NoError(t, err)
	require.Equal(t, pages, doc.PageCount())
	return doc
}

// pageOrder returns the 0-based fixture index of every page in data, read
// back from the page widths pdftest assigns.
func pageOrder(t *testing.T, data []byte) []int {
	t.Helper()
	doc, err := Decode(data)
	require.NoError(t, err)

	dims, err := doc.ctx.PageDims()
	require.NoError(t, err)

	order := make([]int, len(dims))
	for i, d := range dims {
		order[i] = int(d.Width) - pdftest.BaseWidth
	}
	return order
}

func encode(t *testing.T, doc *Document) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, doc.Encode(&buf))
	return buf.Bytes()
}
