package http

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"

	"donations/internal/charts"
	"donations/internal/core"
	applog "donations/internal/log"
	"donations/internal/theme"
)

type cardView struct {
	Title    string
	Value    string
	Subtitle string
}

type rowView struct {
	Label  string
	Amount string
	Donors string
}

type windowOption struct {
	Value    int
	Label    string
	Selected bool
}

// dashboardData feeds both the full page and the htmx partial.
type dashboardData struct {
	Theme     string
	Dark      bool
	Cards     []cardView
	Windows   []windowOption
	Filter    string
	Window    int
	HasPeak   bool
	Peak      string
	Rows      []rowView
	TrendURL  template.URL
	DonorsURL template.URL
	CSVURL    template.URL
	XLSXURL   template.URL
}

func (s *Server) buildDashboard(view core.ViewState) dashboardData {
	symbol := s.settings.CurrencySymbol
	current := s.prefs.Current()
	summary := s.svc.Summary()

	data := dashboardData{
		Theme:  current.String(),
		Dark:   current.IsDark(),
		Filter: view.Filter,
		Window: int(view.Window),
		Cards: []cardView{
			{Title: "Total Donations", Value: formatAmount(symbol, summary.TotalAmount), Subtitle: "Sum of all donations"},
			{Title: "Number of Donors", Value: formatCount(summary.TotalDonors), Subtitle: "Unique donor count"},
			{Title: "Average Donation", Value: formatAverage(symbol, summary.AverageDonation), Subtitle: "Average per donor"},
		},
	}

	for _, w := range core.AllowedWindows() {
		data.Windows = append(data.Windows, windowOption{
			Value:    int(w),
			Label:    fmt.Sprintf("Last %d months", int(w)),
			Selected: w == view.Window,
		})
	}

	if peak, ok := s.svc.Peak(); ok {
		data.HasPeak = true
		data.Peak = peak.Label
	}

	for _, r := range s.svc.View(view) {
		data.Rows = append(data.Rows, rowView{
			Label:  r.Label,
			Amount: formatAmount(symbol, r.Amount),
			Donors: formatCount(int64(r.Donors)),
		})
	}

	q := viewQuery(view)
	data.CSVURL = template.URL("/export.csv?" + q.Encode())
	data.XLSXURL = template.URL("/export.xlsx?" + q.Encode())
	// theme is part of the chart URL so toggling busts the browser cache.
	q.Set("theme", current.String())
	data.TrendURL = template.URL("/charts/trend.svg?" + q.Encode())
	data.DonorsURL = template.URL("/charts/donors.svg?" + q.Encode())
	return data
}

// handleDashboard renders the full dashboard page.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.renderDashboard(w, r, "dashboard_page")
}

// handleDashboardPartial renders the cards, charts and table for htmx swaps.
func (s *Server) handleDashboardPartial(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	s.renderDashboard(w, r, "dashboard_view")
}

func (s *Server) renderDashboard(w http.ResponseWriter, r *http.Request, name string) {
	if !requireGet(w, r) {
		return
	}
	ctx := r.Context()
	logger := applog.FromContext(ctx)

	view, err := ParseViewParams(r.URL.Query(), s.settings.DefaultWindow)
	if err != nil {
		logger.WarnContext(ctx, "Invalid view parameters", applog.FieldError, err, applog.FieldQuery, r.URL.RawQuery)
		BadRequestError("Window must be 3, 6 or 12 months and the search at most 64 characters").Write(w)
		return
	}

	if s.templates == nil {
		logger.WithComponent(applog.ComponentTemplate).ErrorContext(ctx, "Templates not loaded", applog.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, s.buildDashboard(view)); err != nil {
		logger.WithComponent(applog.ComponentTemplate).ErrorContext(ctx, "Dashboard template execution failed",
			applog.FieldError, err,
			"template", name)
		http.Error(w, "failed to render dashboard", http.StatusInternalServerError)
		return
	}

	logger.DebugContext(ctx, "Dashboard rendered",
		applog.FieldOperation, applog.OpView,
		applog.FieldWindow, int(view.Window),
		applog.FieldFilter, view.Filter)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// handleChart serves one chart as SVG for the requested view. An explicit
// theme query parameter wins over the saved preference.
func (s *Server) handleChart(kind charts.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireGet(w, r) {
			return
		}
		ctx := r.Context()

		view, err := ParseViewParams(r.URL.Query(), s.settings.DefaultWindow)
		if err != nil {
			BadRequestError("Window must be 3, 6 or 12 months").Write(w)
			return
		}

		t := s.prefs.Current()
		if raw := r.URL.Query().Get("theme"); raw != "" {
			parsed, err := theme.Parse(raw)
			if err != nil {
				BadRequestError("Theme must be light or dark").Write(w)
				return
			}
			t = parsed
		}

		svg, err := s.charts.Render(ctx, kind, s.svc.View(view), t)
		if err != nil {
			applog.FromContext(ctx).ErrorContext(ctx, "Chart failed", applog.FieldChart, kind, applog.FieldError, err)
			http.Error(w, "failed to render chart", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("Cache-Control", "private, max-age=60")
		_, _ = w.Write(svg)
	}
}
