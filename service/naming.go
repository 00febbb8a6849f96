package service

import (
	"fmt"
	"path/filepath"
	"strings"

	"pdf_tools/artifact"
)

const defaultBaseName = "document"

// sanitizeFilename removes path traversal attempts and dangerous characters
func sanitizeFilename(filename string) string {
	// Remove directory separators and path traversal attempts
	filename = strings.ReplaceAll(filename, "..", "")
	filename = strings.ReplaceAll(filename, "/", "_")
	filename = strings.ReplaceAll(filename, "\\", "_")
	filename = strings.Map(func(r rune) rune {
		if r < 0x20 || r == '"' {
			return -1
		}
		return r
	}, filename)

	return strings.TrimSpace(filepath.Base(filename))
}

// baseName returns the upload's name without its extension.
func baseName(filename string) string {
	name := sanitizeFilename(filename)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if name == "" || name == "." {
		return defaultBaseName
	}
	return name
}

func mergedFilename() string {
	return fmt.Sprintf("merged_document_%s.pdf", artifact.Token())
}

func splitFilename(original string) string {
	return fmt.Sprintf("%s_split_%s.zip", baseName(original), artifact.Token())
}

func compressedFilename(original string) string {
	return baseName(original) + "_compressed.pdf"
}
