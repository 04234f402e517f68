package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"donations/internal/core"
	"donations/internal/theme"
)

func TestParseViewParams(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    core.ViewState
		wantErr bool
	}{
		{"defaults", "", core.ViewState{Window: core.WindowHalf}, false},
		{"window only", "window=3", core.ViewState{Window: core.WindowQuarter}, false},
		{"window and filter", "window=12&q=Ju", core.ViewState{Window: core.WindowYear, Filter: "Ju"}, false},
		{"filter keeps spaces", "window=12&q=%20o", core.ViewState{Window: core.WindowYear, Filter: " o"}, false},
		{"blank window uses default", "window=%20", core.ViewState{Window: core.WindowHalf}, false},
		{"control characters removed", "q=No%07v%0A", core.ViewState{Window: core.WindowHalf, Filter: "Nov"}, false},
		{"unsupported window", "window=5", core.ViewState{}, true},
		{"non numeric window", "window=all", core.ViewState{}, true},
		{"filter too long", "q=" + strings.Repeat("a", 65), core.ViewState{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("bad test query: %v", err)
			}
			got, err := ParseViewParams(q, core.WindowHalf)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseViewParams() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseViewParams_WrapsInvalidWindow(t *testing.T) {
	_, err := ParseViewParams(url.Values{"window": {"9"}}, core.DefaultWindow)
	if !errors.Is(err, core.ErrInvalidWindow) {
		t.Fatalf("expected ErrInvalidWindow, got %v", err)
	}
}

func TestViewQuery(t *testing.T) {
	got := viewQuery(core.ViewState{Window: core.WindowQuarter, Filter: "o"}).Encode()
	if got != "q=o&window=3" {
		t.Fatalf("viewQuery = %q", got)
	}
	if got := viewQuery(core.ViewState{Window: core.WindowYear}).Encode(); got != "window=12" {
		t.Fatalf("viewQuery without filter = %q", got)
	}
}

func TestParseThemeForm(t *testing.T) {
	tests := []struct {
		body     string
		want     theme.Theme
		explicit bool
		wantErr  bool
	}{
		{"", "", false, false},
		{"theme=dark", theme.Dark, true, false},
		{"theme=+LIGHT+", theme.Light, true, false},
		{"theme=blue", "", false, true},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/theme", strings.NewReader(tt.body))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		got, explicit, err := parseThemeForm(req)
		if tt.wantErr != (err != nil) {
			t.Fatalf("%q: err = %v", tt.body, err)
		}
		if got != tt.want || explicit != tt.explicit {
			t.Errorf("%q: got (%q, %v), want (%q, %v)", tt.body, got, explicit, tt.want, tt.explicit)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "₹0"},
		{"950", "₹950"},
		{"99600", "₹99,600"},
		{"1234567", "₹1,234,567"},
		{"1234.5", "₹1,234.5"},
		{"1234.567", "₹1,234.57"},
	}
	for _, tt := range tests {
		if got := formatAmount("₹", decimal.RequireFromString(tt.in)); got != tt.want {
			t.Errorf("formatAmount(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatAverageRoundsForDisplayOnly(t *testing.T) {
	avg := decimal.NewFromInt(99600).Div(decimal.NewFromInt(238))
	if got := formatAverage("$", avg); got != "$418" {
		t.Fatalf("formatAverage = %q, want $418", got)
	}
	if avg.Equal(avg.Round(0)) {
		t.Fatalf("formatting must not modify the stored value")
	}
	if got := formatCount(238); got != "238" {
		t.Fatalf("formatCount = %q", got)
	}
}
