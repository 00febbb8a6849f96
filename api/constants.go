package api

const (
	// ServiceName is reported by the health and info endpoints
	ServiceName = "pdf_tools"

	// Version is the API version
	Version = "1.0.0"

	// DefaultCORSOrigin is the development frontend
	DefaultCORSOrigin = "http://localhost:3000"

	// MaxErrorMessageLength caps internal error details returned to clients
	MaxErrorMessageLength = 200

	// HeaderMergedPages carries the page count of a merged document
	HeaderMergedPages = "X-Merged-Pages"

	// HeaderSkippedInputs lists the merge inputs that were skipped
	HeaderSkippedInputs = "X-Skipped-Inputs"

	// HeaderSplitParts carries the number of documents in a split archive
	HeaderSplitParts = "X-Split-Parts"

	// HeaderCompressionLevel carries the applied compression level
	HeaderCompressionLevel = "X-Compression-Level"
)
