package resolver

import (
	"strconv"
	"strings"
)

// PageRange is an inclusive 0-based page span.
type PageRange struct {
	Start int
	End   int
}

// ParsePageRange accepts "<n>" or "<a>-<b>", both 1-based, and converts
// to a 0-based inclusive range. Bounds against the document are not
// checked here; out-of-bounds pages are skipped at extraction time.
func ParsePageRange(spec string) (PageRange, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return PageRange{}, &InvalidRangeError{Spec: spec, Reason: "empty"}
	}

	if a, b, ok := strings.Cut(spec, "-"); ok {
		start, err := strconv.Atoi(strings.TrimSpace(a))
		if err != nil {
			return PageRange{}, &InvalidRangeError{Spec: spec, Reason: "pages must be numbers"}
		}
		end, err := strconv.Atoi(strings.TrimSpace(b))
		if err != nil {
			return PageRange{}, &InvalidRangeError{Spec: spec, Reason: "pages must be numbers"}
		}
		if start < 1 || end < 1 {
			return PageRange{}, &InvalidRangeError{Spec: spec, Reason: "pages are numbered from 1"}
		}
		if start > end {
			return PageRange{}, &InvalidRangeError{Spec: spec, Reason: "start page is after end page"}
		}
		return PageRange{Start: start - 1, End: end - 1}, nil
	}

	page, err := strconv.Atoi(spec)
	if err != nil {
		return PageRange{}, &InvalidRangeError{Spec: spec, Reason: "pages must be numbers"}
	}
	if page < 1 {
		return PageRange{}, &InvalidRangeError{Spec: spec, Reason: "pages are numbered from 1"}
	}
	return PageRange{Start: page - 1, End: page - 1}, nil
}

// Clamp trims the range to a document of pageCount pages. ok is false
// when no page of the range is in bounds.
func (r PageRange) Clamp(pageCount int) (PageRange, bool) {
	if pageCount <= 0 || r.Start >= pageCount {
		return PageRange{}, false
	}
	clamped := r
	if clamped.End >= pageCount {
		clamped.End = pageCount - 1
	}
	return clamped, true
}

// Human renders the range back in the 1-based form users write.
func (r PageRange) Human() string {
	if r.Start == r.End {
		return strconv.Itoa(r.Start + 1)
	}
	return strconv.Itoa(r.Start+1) + "-" + strconv.Itoa(r.End+1)
}
