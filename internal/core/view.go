package core

import (
	"errors"
	"strconv"
	"strings"
)

// WindowSize is the number of trailing months shown on the dashboard.
type WindowSize int

const (
	WindowQuarter WindowSize = 3
	WindowHalf    WindowSize = 6
	WindowYear    WindowSize = 12

	DefaultWindow = WindowYear
)

var ErrInvalidWindow = errors.New("invalid window size")

// AllowedWindows lists the selectable window sizes, largest first.
func AllowedWindows() []WindowSize {
	return []WindowSize{WindowYear, WindowHalf, WindowQuarter}
}

// IsValid reports whether w is one of the allowed window sizes.
func (w WindowSize) IsValid() bool {
	switch w {
	case WindowQuarter, WindowHalf, WindowYear:
		return true
	default:
		return false
	}
}

// Clamp maps w to the nearest allowed window size. Ties go to the smaller window.
func (w WindowSize) Clamp() WindowSize {
	if w.IsValid() {
		return w
	}
	best := WindowQuarter
	bestDist := absInt(int(w) - int(best))
	for _, candidate := range []WindowSize{WindowHalf, WindowYear} {
		if d := absInt(int(w) - int(candidate)); d < bestDist {
			best, bestDist = candidate, d
		}
	}
	return best
}

func (w WindowSize) String() string {
	return strconv.Itoa(int(w))
}

// ParseWindowSize parses a user supplied window size. Empty input yields DefaultWindow.
func ParseWindowSize(s string) (WindowSize, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultWindow, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, ErrInvalidWindow
	}
	w := WindowSize(n)
	if !w.IsValid() {
		return 0, ErrInvalidWindow
	}
	return w, nil
}

// ViewState is the user adjustable part of the dashboard.
type ViewState struct {
	Window WindowSize
	Filter string
}

// Window returns the trailing size records. Sizes outside the allowed set are clamped.
func Window(records []Record, size WindowSize) []Record {
	n := int(size.Clamp())
	if n >= len(records) {
		return append([]Record(nil), records...)
	}
	return append([]Record(nil), records[len(records)-n:]...)
}

// FilterByLabel keeps records whose label contains text, ignoring case.
// Blank text returns the input unchanged.
func FilterByLabel(records []Record, text string) []Record {
	if strings.TrimSpace(text) == "" {
		return append([]Record(nil), records...)
	}
	needle := strings.ToLower(text)
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Label), needle) {
			out = append(out, r)
		}
	}
	return out
}

// SelectView windows first and filters second, so a record outside the
// window is never shown regardless of the filter.
func SelectView(records []Record, view ViewState) []Record {
	return FilterByLabel(Window(records, view.Window), view.Filter)
}

// Peak returns the record with the highest amount. The earliest record wins ties.
// The boolean is false for an empty input.
func Peak(records []Record) (Record, bool) {
	if len(records) == 0 {
		return Record{}, false
	}
	peak := records[0]
	for _, r := range records[1:] {
		if r.Amount.GreaterThan(peak.Amount) {
			peak = r
		}
	}
	return peak, true
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
