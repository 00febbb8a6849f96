package pdf

import (
	"errors"
	"fmt"
)

// ValidationError marks errors caused by caller input that the caller can correct.
type ValidationError interface {
	error
	Validation() bool
}

type validationError struct {
	msg string
}

func (e *validationError) Error() string    { return e.msg }
func (e *validationError) Validation() bool { return true }

func newValidationError(msg string) error {
	return &validationError{msg: msg}
}

// Validation errors
var (
	ErrTooFewDocuments      = newValidationError("at least 2 PDF files are required")
	ErrEmptyDocument        = newValidationError("the PDF has no pages")
	ErrEmptyRangeExpression = newValidationError("empty page specification")
	ErrRangeRequired        = newValidationError("no pages specified and split_all is not set")
)

// Semantic and decode errors
var (
	ErrNoValidPages = errors.New("no valid PDF pages found in the input files")
	ErrEmptyInput   = errors.New("empty input")
)

// IsValidation reports whether err (or anything it wraps) is a ValidationError.
func IsValidation(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve) && ve.Validation()
}

// RangeErrorKind classifies a page-range parse failure.
type RangeErrorKind int

const (
	MalformedRangeToken RangeErrorKind = iota
	InvalidPageNumber
	InvalidPageRange
)

func (k RangeErrorKind) String() string {
	switch k {
	case InvalidPageNumber:
		return "invalid page number"
	case InvalidPageRange:
		return "invalid page range"
	default:
		return "malformed range token"
	}
}

// RangeParseError names the token of a range expression that could not be used.
type RangeParseError struct {
	Kind      RangeErrorKind
	Token     string
	PageCount int
}

func (e *RangeParseError) Error() string {
	switch e.Kind {
	case InvalidPageNumber:
		return fmt.Sprintf("page %s out of range (document has %d pages)", e.Token, e.PageCount)
	case InvalidPageRange:
		return fmt.Sprintf("invalid page range: %s (document has %d pages)", e.Token, e.PageCount)
	default:
		return fmt.Sprintf("invalid page range format: %q", e.Token)
	}
}

func (e *RangeParseError) Validation() bool { return true }

// UnsupportedFileTypeError is returned for uploads that are not PDF documents.
type UnsupportedFileTypeError struct {
	Filename string
}

func (e *UnsupportedFileTypeError) Error() string {
	return fmt.Sprintf("file '%s' is not a PDF. Only PDF files are supported", e.Filename)
}

func (e *UnsupportedFileTypeError) Validation() bool { return true }

// SizeLimitError is returned for uploads larger than the configured maximum.
type SizeLimitError struct {
	Filename string
	Size     int64
	Max      int64
}

func (e *SizeLimitError) Error() string {
	return fmt.Sprintf("file '%s' size %d exceeds maximum allowed %d bytes", e.Filename, e.Size, e.Max)
}

func (e *SizeLimitError) Validation() bool { return true }

// TransformError wraps an internal decode or encode failure of an operation.
type TransformError struct {
	Op  string
	Err error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}
