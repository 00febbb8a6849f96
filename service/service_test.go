package service

import (
	"archive/zip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"pdf_tools/artifact"
	"pdf_tools/pdf"
	"pdf_tools/pdf/pdftest"
)

func newTestService(t *testing.T, def pdf.SplitDefault) (*Service, *artifact.Manager) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	m, err := artifact.NewManager(t.TempDir(), logger)
	require.NoError(t, err)
	return New(m, def, logger), m
}

func assertTempDirEmpty(t *testing.T, m *artifact.Manager) {
	t.Helper()
	entries, err := os.ReadDir(m.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func pageCount(t *testing.T, path string) int {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	doc, err := pdf.Decode(data)
	require.NoError(t, err)
	return doc.PageCount()
}

func TestMerge(t *testing.T) {
	svc, m := newTestService(t, pdf.SplitDefaultAll)

	res, err := svc.Merge([]pdf.Input{
		{Name: "a.pdf", Data: pdftest.Document(2)},
		{Name: "bad.pdf", Data: pdftest.Corrupt()},
		{Name: "c.pdf", Data: pdftest.Document(3)},
	})
	require.NoError(t, err)

	assert.Regexp(t, `^merged_document_[0-9a-f]{8}\.pdf$`, res.Filename)
	assert.Equal(t, MediaTypePDF, res.MediaType)
	assert.Equal(t, 5, res.Report.Pages)
	require.Len(t, res.Report.Skipped(), 1)
	assert.Equal(t, "bad.pdf", res.Report.Skipped()[0].Name)
	assert.Equal(t, 5, pageCount(t, res.Path))

	require.NoError(t, res.Release())
	assert.NoFileExists(t, res.Path)
	assertTempDirEmpty(t, m)
}

func TestMerge_Failures(t *testing.T) {
	svc, m := newTestService(t, pdf.SplitDefaultAll)

	_, err := svc.Merge([]pdf.Input{{Name: "a.pdf", Data: pdftest.Document(1)}})
	assert.ErrorIs(t, err, pdf.ErrTooFewDocuments)

	_, err = svc.Merge([]pdf.Input{
		{Name: "a.pdf", Data: pdftest.Corrupt()},
		{Name: "b.pdf", Data: nil},
	})
	assert.ErrorIs(t, err, pdf.ErrNoValidPages)

	assertTempDirEmpty(t, m)
}

func TestSplit_Ranges(t *testing.T) {
	svc, m := newTestService(t, pdf.SplitDefaultAll)

	res, err := svc.Split(pdf.Input{Name: "report.pdf", Data: pdftest.Document(8)}, SplitRequest{Pages: "1,3-5,7"})
	require.NoError(t, err)

	assert.Regexp(t, `^report_split_[0-9a-f]{8}\.zip$`, res.Filename)
	assert.Equal(t, MediaTypeZip, res.MediaType)
	assert.Equal(t, []string{"page_1", "pages_3-5", "page_7"}, res.Parts)

	counts := archivePageCounts(t, res.Path)
	assert.Equal(t, []string{"page_1.pdf", "pages_3-5.pdf", "page_7.pdf"}, counts.names)
	assert.Equal(t, []int{1, 3, 1}, counts.pages)

	require.NoError(t, res.Release())
	assert.NoFileExists(t, res.Path)
	assert.NoDirExists(t, filepath.Dir(res.Path))
	assertTempDirEmpty(t, m)
}

func TestSplit_All(t *testing.T) {
	svc, _ := newTestService(t, pdf.SplitDefaultAll)

	res, err := svc.Split(pdf.Input{Name: "doc.pdf", Data: pdftest.Document(3)}, SplitRequest{SplitAll: true, Pages: "2"})
	require.NoError(t, err)
	defer res.Release()

	counts := archivePageCounts(t, res.Path)
	assert.Equal(t, []string{"page_1.pdf", "page_2.pdf", "page_3.pdf"}, counts.names)
	assert.Equal(t, []int{1, 1, 1}, counts.pages)
}

func TestSplit_DefaultMode(t *testing.T) {
	svc, _ := newTestService(t, pdf.SplitDefaultAll)
	res, err := svc.Split(pdf.Input{Name: "doc.pdf", Data: pdftest.Document(2)}, SplitRequest{})
	require.NoError(t, err)
	assert.Equal(t, []string{"page_1", "page_2"}, res.Parts)
	require.NoError(t, res.Release())

	strict, m := newTestService(t, pdf.SplitDefaultReject)
	_, err = strict.Split(pdf.Input{Name: "doc.pdf", Data: pdftest.Document(2)}, SplitRequest{})
	assert.ErrorIs(t, err, pdf.ErrRangeRequired)
	assertTempDirEmpty(t, m)
}

func TestSplit_RangeErrorLeavesNothing(t *testing.T) {
	svc, m := newTestService(t, pdf.SplitDefaultAll)

	for _, pages := range []string{"0", "9", "1,3-9"} {
		res, err := svc.Split(pdf.Input{Name: "doc.pdf", Data: pdftest.Document(8)}, SplitRequest{Pages: pages})
		assert.Nil(t, res)

		var rangeErr *pdf.RangeParseError
		require.True(t, errors.As(err, &rangeErr), "pages %q", pages)
		assert.True(t, pdf.IsValidation(err))
	}
	assertTempDirEmpty(t, m)
}

func TestSplit_DecodeFailure(t *testing.T) {
	svc, m := newTestService(t, pdf.SplitDefaultAll)

	_, err := svc.Split(pdf.Input{Name: "bad.pdf", Data: pdftest.Corrupt()}, SplitRequest{SplitAll: true})
	var transformErr *pdf.TransformError
	require.True(t, errors.As(err, &transformErr))
	assert.Equal(t, "split", transformErr.Op)
	assertTempDirEmpty(t, m)
}

func TestCompress(t *testing.T) {
	svc, m := newTestService(t, pdf.SplitDefaultAll)

	for _, level := range []int{1, 4} {
		res, err := svc.Compress(pdf.Input{Name: "scan.final.pdf", Data: pdftest.Document(4)}, level)
		require.NoError(t, err)

		assert.Equal(t, "scan.final_compressed.pdf", res.Filename)
		assert.Equal(t, level, res.Profile.Level)
		assert.Equal(t, 4, pageCount(t, res.Path))
		require.NoError(t, res.Release())
	}
	assertTempDirEmpty(t, m)
}

func TestCompress_DecodeFailure(t *testing.T) {
	svc, m := newTestService(t, pdf.SplitDefaultAll)

	_, err := svc.Compress(pdf.Input{Name: "bad.pdf", Data: nil}, 2)
	var transformErr *pdf.TransformError
	require.True(t, errors.As(err, &transformErr))
	assert.ErrorIs(t, err, pdf.ErrEmptyInput)
	assertTempDirEmpty(t, m)
}

func TestFilenames(t *testing.T) {
	assert.Equal(t, "report_compressed.pdf", compressedFilename("report.pdf"))
	assert.Equal(t, "document_compressed.pdf", compressedFilename(""))
	assert.Equal(t, "_etc_passwd_compressed.pdf", compressedFilename("../etc/passwd"))
	assert.Regexp(t, `^document_split_[0-9a-f]{8}\.zip$`, splitFilename(".pdf"))
	assert.NotEqual(t, mergedFilename(), mergedFilename())
}

type archiveContents struct {
	names []string
	pages []int
}

func archivePageCounts(t *testing.T, path string) archiveContents {
	t.Helper()
	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	var contents archiveContents
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)

		doc, err := pdf.Decode(data)
		require.NoError(t, err)
		contents.names = append(contents.names, f.Name)
		contents.pages = append(contents.pages, doc.PageCount())
	}
	return contents
}
