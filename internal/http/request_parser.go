package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"unicode"

	"donations/internal/core"
	"donations/internal/theme"
)

const maxFilterLength = 64

var ErrFilterTooLong = errors.New("filter too long")

// ParseViewParams reads window and q from the query. A missing window uses
// defaultWindow; anything else outside 3, 6 or 12 is an error.
func ParseViewParams(query url.Values, defaultWindow core.WindowSize) (core.ViewState, error) {
	view := core.ViewState{Window: defaultWindow}

	if raw := strings.TrimSpace(query.Get("window")); raw != "" {
		w, err := core.ParseWindowSize(raw)
		if err != nil {
			return core.ViewState{}, fmt.Errorf("window %q: %w", raw, err)
		}
		view.Window = w
	}

	view.Filter = sanitizeInput(query.Get("q"))
	if len([]rune(view.Filter)) > maxFilterLength {
		return core.ViewState{}, ErrFilterTooLong
	}
	return view, nil
}

// viewQuery encodes view back into query parameters for links and chart URLs.
func viewQuery(view core.ViewState) url.Values {
	q := url.Values{}
	q.Set("window", view.Window.String())
	if view.Filter != "" {
		q.Set("q", view.Filter)
	}
	return q
}

// parseThemeForm returns the theme requested by a form field, or ok=false
// when the request asks for a toggle.
func parseThemeForm(r *http.Request) (t theme.Theme, ok bool, err error) {
	if err := r.ParseForm(); err != nil {
		return "", false, err
	}
	raw := strings.TrimSpace(r.PostForm.Get("theme"))
	if raw == "" {
		return "", false, nil
	}
	t, err = theme.Parse(raw)
	if err != nil {
		return "", false, err
	}
	return t, true, nil
}

// sanitizeInput removes control characters. Spaces are kept because they
// are part of the text matched against labels.
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// isHTMX reports whether the request came from htmx.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
