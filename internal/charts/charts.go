// Package charts draws the dashboard's trend and donor charts as SVG.
package charts

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"html"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/wcharczuk/go-chart/v2"
	"golang.org/x/sync/singleflight"

	"donations/internal/cache"
	"donations/internal/core"
	applog "donations/internal/log"
	"donations/internal/theme"
)

// Kind names a chart.
type Kind string

const (
	KindTrend  Kind = "trend"
	KindDonors Kind = "donors"
)

var ErrUnknownChart = errors.New("unknown chart")

const (
	defaultWidth  = 720
	defaultHeight = 320

	emptyMessage = "No months match the current filter"
)

// Renderer draws charts and caches the SVG by kind, theme and rows.
// Concurrent requests for the same chart share one render.
type Renderer struct {
	cache  cache.Cache[[]byte]
	group  singleflight.Group
	logger *applog.Logger
	width  int
	height int
}

// NewRenderer returns a renderer backed by c. A nil cache disables caching.
func NewRenderer(c cache.Cache[[]byte], logger *applog.Logger) *Renderer {
	if logger == nil {
		logger = applog.FromContext(context.Background())
	}
	return &Renderer{
		cache:  c,
		logger: logger.WithComponent(applog.ComponentCharts),
		width:  defaultWidth,
		height: defaultHeight,
	}
}

// Render returns the SVG for kind. An empty record set yields a placeholder.
func (r *Renderer) Render(ctx context.Context, kind Kind, records []core.Record, t theme.Theme) ([]byte, error) {
	if kind != KindTrend && kind != KindDonors {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChart, kind)
	}

	key := cacheKey(kind, t, records)
	if r.cache != nil {
		if svg, ok := r.cache.Get(key); ok {
			r.logger.DebugContext(ctx, "Chart served from cache", applog.FieldChart, kind, applog.FieldCacheHit, true)
			return svg, nil
		}
	}

	v, err, shared := r.group.Do(key, func() (any, error) {
		svg, err := r.draw(kind, records, paletteFor(t))
		if err != nil {
			return nil, err
		}
		if r.cache != nil {
			r.cache.Set(key, svg)
		}
		return svg, nil
	})
	if err != nil {
		r.logger.ErrorContext(ctx, "Chart render failed", applog.FieldChart, kind, applog.FieldError, err)
		return nil, fmt.Errorf("render %s chart: %w", kind, err)
	}

	r.logger.DebugContext(ctx, "Chart rendered",
		applog.FieldOperation, applog.OpRender,
		applog.FieldChart, kind,
		applog.FieldTheme, t,
		applog.FieldRecords, len(records),
		"shared", shared)
	return v.([]byte), nil
}

func (r *Renderer) draw(kind Kind, records []core.Record, p palette) ([]byte, error) {
	if len(records) == 0 {
		return placeholder(r.width, r.height, p), nil
	}

	var buf bytes.Buffer
	var err error
	switch kind {
	case KindTrend:
		err = trendChart(records, p, r.width, r.height).Render(chart.SVG, &buf)
	case KindDonors:
		err = donorsChart(records, p, r.width, r.height).Render(chart.SVG, &buf)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func trendChart(records []core.Record, p palette, width, height int) chart.Chart {
	xs := make([]float64, len(records))
	ys := make([]float64, len(records))
	last := float64(len(records)) - 0.5
	// go-chart takes the x range from the ticks, so unlabeled edge ticks keep
	// it non-zero when a single month is shown.
	ticks := make([]chart.Tick, 0, len(records)+2)
	ticks = append(ticks, chart.Tick{Value: -0.5})
	peak := 0.0
	for i, rec := range records {
		xs[i] = float64(i)
		ys[i] = rec.Amount.InexactFloat64()
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: rec.Label})
		if ys[i] > peak {
			peak = ys[i]
		}
	}
	ticks = append(ticks, chart.Tick{Value: last})

	dotWidth := 4.0
	if len(records) == 1 {
		dotWidth = 6
	}

	return chart.Chart{
		Width:      width,
		Height:     height,
		Background: chart.Style{FillColor: p.background, Padding: chart.Box{Top: 20, Left: 20, Right: 20, Bottom: 10}},
		Canvas:     chart.Style{FillColor: p.background},
		XAxis: chart.XAxis{
			Style: chart.Style{FontColor: p.text, StrokeColor: p.grid},
			Range: &chart.ContinuousRange{Min: -0.5, Max: last},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Style:          chart.Style{FontColor: p.text, StrokeColor: p.grid},
			Range:          &chart.ContinuousRange{Min: 0, Max: upperBound(peak)},
			ValueFormatter: formatAmountTick,
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name: "Amount",
				Style: chart.Style{
					StrokeColor: p.line,
					StrokeWidth: 3,
					DotColor:    p.line,
					DotWidth:    dotWidth,
				},
				XValues: xs,
				YValues: ys,
			},
		},
	}
}

func donorsChart(records []core.Record, p palette, width, height int) chart.BarChart {
	bars := make([]chart.Value, len(records))
	peak := 0.0
	for i, rec := range records {
		v := float64(rec.Donors)
		bars[i] = chart.Value{
			Value: v,
			Label: rec.Label,
			Style: chart.Style{FillColor: p.bar, StrokeColor: p.bar},
		}
		if v > peak {
			peak = v
		}
	}

	barWidth := width / (2 * len(records))
	if barWidth > 40 {
		barWidth = 40
	}
	if barWidth < 4 {
		barWidth = 4
	}

	return chart.BarChart{
		Width:      width,
		Height:     height,
		BarWidth:   barWidth,
		Background: chart.Style{FillColor: p.background, Padding: chart.Box{Top: 20, Left: 20, Right: 20, Bottom: 10}},
		Canvas:     chart.Style{FillColor: p.background},
		XAxis:      chart.Style{FontColor: p.text, StrokeColor: p.grid},
		YAxis: chart.YAxis{
			Style:          chart.Style{FontColor: p.text, StrokeColor: p.grid},
			Range:          &chart.ContinuousRange{Min: 0, Max: upperBound(peak)},
			ValueFormatter: formatCountTick,
		},
		Bars: bars,
	}
}

// upperBound leaves headroom above the highest value and never returns zero.
func upperBound(peak float64) float64 {
	if peak <= 0 {
		return 1
	}
	return peak * 1.1
}

func formatAmountTick(v any) string {
	if f, ok := v.(float64); ok {
		return humanize.Comma(int64(f))
	}
	return ""
}

func formatCountTick(v any) string {
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
	return ""
}

func placeholder(width, height int, p palette) []byte {
	return []byte(fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+
			`<rect width="100%%" height="100%%" fill="%s"/>`+
			`<text x="50%%" y="50%%" text-anchor="middle" dominant-baseline="middle" fill="%s" font-family="sans-serif" font-size="16">%s</text>`+
			`</svg>`,
		width, height, width, height, p.backgroundHex, p.textHex, html.EscapeString(emptyMessage)))
}

func cacheKey(kind Kind, t theme.Theme, records []core.Record) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|", kind, t)
	for _, rec := range records {
		fmt.Fprintf(h, "%q,%s,%d;", rec.Label, rec.Amount.String(), rec.Donors)
	}
	return string(kind) + ":" + hex.EncodeToString(h.Sum(nil))
}
