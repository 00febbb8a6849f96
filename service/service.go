// Package service runs the document operations end to end: it decodes the
// uploads, applies the transform and materializes the result as a temporary
// artifact the caller must release.
package service

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"pdf_tools/artifact"
	"pdf_tools/pdf"
)

const (
	MediaTypePDF = pdf.MediaType
	MediaTypeZip = "application/zip"
)

// Result is the output of an operation. Path is the file to deliver;
// Artifact owns it and must be released once delivery is over.
type Result struct {
	Artifact  *artifact.Artifact
	Path      string
	Filename  string
	MediaType string

	// Merge only.
	Report *pdf.MergeReport
	// Split only.
	Parts []string
	// Compress only.
	Profile *pdf.Profile
}

// Release removes every temporary file behind the result.
func (r *Result) Release() error {
	return r.Artifact.Release()
}

// SplitRequest carries the optional split parameters.
type SplitRequest struct {
	Pages    string
	SplitAll bool
}

// Service runs merge, split and compress operations.
type Service struct {
	artifacts    *artifact.Manager
	splitDefault pdf.SplitDefault
	logger       *zap.Logger
}

// New returns a service that stores its outputs through artifacts.
func New(artifacts *artifact.Manager, splitDefault pdf.SplitDefault, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		artifacts:    artifacts,
		splitDefault: splitDefault,
		logger:       logger,
	}
}

// Merge concatenates inputs into one PDF. Undecodable inputs are skipped and
// listed in the result's report.
func (s *Service) Merge(inputs []pdf.Input) (*Result, error) {
	if len(inputs) < 2 {
		return nil, pdf.ErrTooFewDocuments
	}

	var report *pdf.MergeReport
	art, err := s.artifacts.CreateFile("merged_*.pdf", func(w io.Writer) error {
		var err error
		report, err = pdf.Merge(w, inputs, s.logger)
		return err
	})
	if err != nil {
		s.logger.Error("error merging PDFs", zap.Error(err))
		return nil, err
	}

	return &Result{
		Artifact:  art,
		Path:      art.Path(),
		Filename:  mergedFilename(),
		MediaType: MediaTypePDF,
		Report:    report,
	}, nil
}

// Split cuts input into parts and packs them into a zip archive. The parts
// and the archive share one staging directory released as a unit.
func (s *Service) Split(input pdf.Input, req SplitRequest) (*Result, error) {
	doc, err := pdf.Decode(input.Data)
	if err != nil {
		return nil, &pdf.TransformError{Op: "split", Err: err}
	}
	if err := doc.RequirePages(); err != nil {
		return nil, err
	}

	parts, err := pdf.PlanSplit(req.SplitAll, req.Pages, doc.PageCount(), s.splitDefault)
	if err != nil {
		return nil, err
	}

	stage, err := s.artifacts.CreateDir("split_*")
	if err != nil {
		return nil, err
	}
	delivered := false
	defer func() {
		if !delivered {
			_ = stage.Release()
		}
	}()

	var files, names []string
	err = pdf.Split(doc, parts, func(name string, part *pdf.Document) error {
		path, err := stage.CreateFile(name+pdf.Extension, part.Encode)
		if err != nil {
			return err
		}
		files = append(files, path)
		names = append(names, name)
		return nil
	})
	if err != nil {
		s.logger.Error("error splitting PDF", zap.String("name", input.Name), zap.Error(err))
		return nil, err
	}

	filename := splitFilename(input.Name)
	archive, err := stage.CreateFile(filename, func(w io.Writer) error {
		return writeArchive(w, files)
	})
	if err != nil {
		s.logger.Error("error building split archive", zap.String("name", input.Name), zap.Error(err))
		return nil, &pdf.TransformError{Op: "split", Err: err}
	}

	s.logger.Info("split PDF",
		zap.String("name", input.Name),
		zap.Int("pages", doc.PageCount()),
		zap.Int("parts", len(files)),
	)

	delivered = true
	return &Result{
		Artifact:  stage,
		Path:      archive,
		Filename:  filename,
		MediaType: MediaTypeZip,
		Parts:     names,
	}, nil
}

// Compress re-saves input with the profile selected by level.
func (s *Service) Compress(input pdf.Input, level int) (*Result, error) {
	doc, err := pdf.Decode(input.Data)
	if err != nil {
		return nil, &pdf.TransformError{Op: "compress", Err: err}
	}
	if err := doc.RequirePages(); err != nil {
		return nil, err
	}

	var profile pdf.Profile
	art, err := s.artifacts.CreateFile("compressed_*.pdf", func(w io.Writer) error {
		var err error
		profile, err = pdf.Compress(w, doc, level)
		return err
	})
	if err != nil {
		s.logger.Error("error compressing PDF", zap.String("name", input.Name), zap.Error(err))
		return nil, err
	}

	s.logger.Info("compressed PDF",
		zap.String("name", input.Name),
		zap.Int("level", profile.Level),
		zap.Stringer("unused_objects", profile.UnusedObjects),
		zap.Int("original_size", len(input.Data)),
	)

	return &Result{
		Artifact:  art,
		Path:      art.Path(),
		Filename:  compressedFilename(input.Name),
		MediaType: MediaTypePDF,
		Profile:   &profile,
	}, nil
}

// writeArchive stores each file in a zip archive under its base name.
func writeArchive(w io.Writer, files []string) error {
	zw := zip.NewWriter(w)
	for _, path := range files {
		if err := addToArchive(zw, path); err != nil {
			zw.Close()
			return err
		}
	}
	return zw.Close()
}

func addToArchive(zw *zip.Writer, path string) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	entry, err := zw.Create(filepath.Base(path))
	if err != nil {
		return fmt.Errorf("failed to create archive entry %s: %w", filepath.Base(path), err)
	}
	_, err = io.Copy(entry, src)
	return err
}
