package pdf

import (
	"fmt"
	"strconv"
	"strings"
)

// PageRange is a closed interval of 0-based page indices.
type PageRange struct {
	Start int
	End   int
}

// Pages returns the number of pages covered by the range.
func (r PageRange) Pages() int {
	return r.End - r.Start + 1
}

// Name returns the output name of the range: "page_3" or "pages_3-5".
func (r PageRange) Name() string {
	if r.Start == r.End {
		return fmt.Sprintf("page_%d", r.Start+1)
	}
	return fmt.Sprintf("pages_%d-%d", r.Start+1, r.End+1)
}

// String returns the 1-based token the range was parsed from.
func (r PageRange) String() string {
	if r.Start == r.End {
		return strconv.Itoa(r.Start + 1)
	}
	return fmt.Sprintf("%d-%d", r.Start+1, r.End+1)
}

// RangeSpec is an ordered list of page ranges. Order and duplicates are kept.
type RangeSpec []PageRange

// String returns the canonical expression for the spec, e.g. "1,3-5,7".
func (s RangeSpec) String() string {
	tokens := make([]string, len(s))
	for i, r := range s {
		tokens[i] = r.String()
	}
	return strings.Join(tokens, ",")
}

// AllPages returns a spec with one single-page range per page.
func AllPages(pageCount int) RangeSpec {
	spec := make(RangeSpec, pageCount)
	for i := range spec {
		spec[i] = PageRange{Start: i, End: i}
	}
	return spec
}

// ParsePageRanges parses a page specification such as "1,3-5,7" against a
// document of pageCount pages. Page numbers in the expression are 1-based.
func ParsePageRanges(expr string, pageCount int) (RangeSpec, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, ErrEmptyRangeExpression
	}

	var spec RangeSpec
	for _, part := range strings.Split(expr, ",") {
		token := strings.TrimSpace(part)
		r, err := parseRangeToken(token, pageCount)
		if err != nil {
			return nil, err
		}
		spec = append(spec, r)
	}

	return spec, nil
}

func parseRangeToken(token string, pageCount int) (PageRange, error) {
	malformed := &RangeParseError{Kind: MalformedRangeToken, Token: token, PageCount: pageCount}

	left, right, isRange := strings.Cut(token, "-")
	if !isRange {
		page, err := parsePageNumber(token)
		if err != nil {
			return PageRange{}, malformed
		}
		if page < 1 || page > pageCount {
			return PageRange{}, &RangeParseError{Kind: InvalidPageNumber, Token: token, PageCount: pageCount}
		}
		return PageRange{Start: page - 1, End: page - 1}, nil
	}

	start, err := parsePageNumber(left)
	if err != nil {
		return PageRange{}, malformed
	}
	end, err := parsePageNumber(right)
	if err != nil {
		return PageRange{}, malformed
	}
	if start > end || start < 1 || end > pageCount {
		return PageRange{}, &RangeParseError{Kind: InvalidPageRange, Token: token, PageCount: pageCount}
	}

	return PageRange{Start: start - 1, End: end - 1}, nil
}

// parsePageNumber accepts plain decimal digits only, so "-3" and "+3" are malformed.
func parsePageNumber(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, "+-") {
		return 0, fmt.Errorf("invalid page number: %q", s)
	}
	return strconv.Atoi(s)
}
