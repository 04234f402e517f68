package charts

import (
	"github.com/wcharczuk/go-chart/v2/drawing"

	"donations/internal/theme"
)

type palette struct {
	background drawing.Color
	text       drawing.Color
	grid       drawing.Color
	line       drawing.Color
	bar        drawing.Color

	backgroundHex string
	textHex       string
}

var (
	lightPalette = newPalette("ffffff", "1f2937", "d1d5db", "4f46e5", "10b981")
	darkPalette  = newPalette("111827", "e5e7eb", "374151", "818cf8", "34d399")
)

func newPalette(background, text, grid, line, bar string) palette {
	return palette{
		background:    drawing.ColorFromHex(background),
		text:          drawing.ColorFromHex(text),
		grid:          drawing.ColorFromHex(grid),
		line:          drawing.ColorFromHex(line),
		bar:           drawing.ColorFromHex(bar),
		backgroundHex: "#" + background,
		textHex:       "#" + text,
	}
}

func paletteFor(t theme.Theme) palette {
	if t.IsDark() {
		return darkPalette
	}
	return lightPalette
}
