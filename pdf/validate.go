package pdf

import (
	"mime"
	"strings"
)

// CheckDocumentType accepts an upload when either its declared media type is
// application/pdf or its filename carries the .pdf extension.
func CheckDocumentType(filename, contentType string) error {
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil && mediaType == MediaType {
		return nil
	}
	if strings.HasSuffix(strings.ToLower(filename), Extension) {
		return nil
	}
	return &UnsupportedFileTypeError{Filename: filename}
}

// CheckSize rejects uploads larger than max bytes. A max of 0 disables the check.
func CheckSize(filename string, size, max int64) error {
	if max > 0 && size > max {
		return &SizeLimitError{Filename: filename, Size: size, Max: max}
	}
	return nil
}

// RequirePages rejects documents without pages before any transform starts.
func (d *Document) RequirePages() error {
	if d.PageCount() == 0 {
		return ErrEmptyDocument
	}
	return nil
}
