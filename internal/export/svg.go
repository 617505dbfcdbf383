// Package export writes plots of runs as standalone SVG documents.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/sdesim/internal/viz"
)

const background = "#0a0a0a"

func header(sb *strings.Builder, width, height float64) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)
}

// CanvasToSVG draws every lit braille dot of canvas as a circle, scale
// pixels apart.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	var sb strings.Builder
	header(&sb, float64(canvas.Width)*scale*2, float64(canvas.Height)*scale*4)
	sb.WriteString("<g fill=\"#00ff00\">\n")

	bits := [4][2]rune{{0x01, 0x08}, {0x02, 0x10}, {0x04, 0x20}, {0x40, 0x80}}
	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			pattern := canvas.Grid[row][col] - 0x2800
			if pattern <= 0 {
				continue
			}
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&bits[dy][dx] == 0 {
						continue
					}
					cx := (float64(col*2+dx) + 0.5) * scale
					cy := (float64(row*4+dy) + 0.5) * scale
					fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, scale*0.4)
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// SeriesToSVG draws each series as a polyline against its sample index, all
// sharing one vertical scale with 10% padding. Non-finite samples break the
// line.
func SeriesToSVG(series [][]float64, width, height int, colors ...string) string {
	lo, hi, longest := math.Inf(1), math.Inf(-1), 0
	for _, ys := range series {
		longest = max(longest, len(ys))
		for _, y := range ys {
			if math.IsNaN(y) || math.IsInf(y, 0) {
				continue
			}
			lo, hi = math.Min(lo, y), math.Max(hi, y)
		}
	}
	if longest < 2 || math.IsInf(lo, 0) {
		return ""
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	lo -= span * 0.1
	span *= 1.2

	if len(colors) == 0 {
		colors = []string{"#00ccff", "#ff4444", "#00ff88", "#ffcc00"}
	}

	var sb strings.Builder
	header(&sb, float64(width), float64(height))

	for i, ys := range series {
		fmt.Fprintf(&sb, "<path fill=\"none\" stroke=\"%s\" stroke-width=\"1.5\" d=\"", colors[i%len(colors)])
		pen := false
		for k, y := range ys {
			if math.IsNaN(y) || math.IsInf(y, 0) {
				pen = false
				continue
			}
			x := float64(k) / float64(longest-1) * float64(width)
			py := float64(height) - (y-lo)/span*float64(height)
			cmd := "L"
			if !pen {
				cmd = "M"
			}
			fmt.Fprintf(&sb, "%s%.1f,%.1f ", cmd, x, py)
			pen = true
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// ProfileToSVG renders the ring profile of x on a braille canvas of the
// given size in cells.
func ProfileToSVG(x []float64, cols, rows int, lo, hi, scale float64) string {
	c := viz.NewCanvas(cols, rows)
	c.DrawProfile(x, lo, hi)
	return CanvasToSVG(c, scale)
}
