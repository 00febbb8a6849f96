package pdf

import (
	"fmt"
	"strings"
)

// SplitDefault decides what a split does when neither split_all nor a page
// expression is supplied.
type SplitDefault string

const (
	// SplitDefaultAll splits every page into its own document.
	SplitDefaultAll SplitDefault = "all"
	// SplitDefaultReject fails with ErrRangeRequired.
	SplitDefaultReject SplitDefault = "reject"
)

// ParseSplitDefault validates a configured split default.
func ParseSplitDefault(s string) (SplitDefault, error) {
	switch d := SplitDefault(strings.ToLower(strings.TrimSpace(s))); d {
	case "", SplitDefaultAll:
		return SplitDefaultAll, nil
	case SplitDefaultReject:
		return d, nil
	default:
		return "", fmt.Errorf("unknown split default %q (supported: all, reject)", s)
	}
}

// Part is one output document of a split.
type Part struct {
	Name  string
	Range PageRange
}

// PlanSplit resolves the split mode for a document of pageCount pages.
// splitAll wins over expr; an empty expr falls back to def.
func PlanSplit(splitAll bool, expr string, pageCount int, def SplitDefault) ([]Part, error) {
	if pageCount == 0 {
		return nil, ErrEmptyDocument
	}

	var spec RangeSpec
	switch {
	case splitAll:
		spec = AllPages(pageCount)
	case strings.TrimSpace(expr) != "":
		var err error
		if spec, err = ParsePageRanges(expr, pageCount); err != nil {
			return nil, err
		}
	case def == SplitDefaultReject:
		return nil, ErrRangeRequired
	default:
		spec = AllPages(pageCount)
	}

	return partsFor(spec), nil
}

// partsFor names each range. A repeated range gets a numeric suffix so every
// archive entry name stays unique.
func partsFor(spec RangeSpec) []Part {
	parts := make([]Part, len(spec))
	seen := make(map[string]int, len(spec))
	for i, r := range spec {
		name := r.Name()
		seen[name]++
		if n := seen[name]; n > 1 {
			name = fmt.Sprintf("%s_%d", name, n)
		}
		parts[i] = Part{Name: name, Range: r}
	}
	return parts
}

// Split extracts each part from doc, in order, and hands it to emit.
func Split(doc *Document, parts []Part, emit func(name string, part *Document) error) error {
	if err := doc.RequirePages(); err != nil {
		return err
	}

	for _, p := range parts {
		out, err := doc.Extract(p.Range)
		if err != nil {
			return &TransformError{Op: "split", Err: err}
		}
		if err := emit(p.Name, out); err != nil {
			return fmt.Errorf("failed to emit %s: %w", p.Name, err)
		}
	}
	return nil
}
