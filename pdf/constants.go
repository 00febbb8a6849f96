package pdf

const (
	// MediaType is the media type accepted for uploaded documents
	MediaType = "application/pdf"

	// Extension is the filename extension accepted for uploaded documents
	Extension = ".pdf"

	// MinCompressionLevel is the lightest compression level
	MinCompressionLevel = 1

	// MaxCompressionLevel is the most aggressive compression level
	MaxCompressionLevel = 4

	// DefaultCompressionLevel is used when no level is supplied
	DefaultCompressionLevel = MinCompressionLevel
)
