package viz

import "github.com/guptarohit/asciigraph"

// Plot draws one or more series on a shared axis for terminal output.
func Plot(caption string, height, width int, series ...[]float64) string {
	opts := []asciigraph.Option{asciigraph.Height(height), asciigraph.Caption(caption)}
	if width > 0 {
		opts = append(opts, asciigraph.Width(width))
	}
	if len(series) > 1 {
		colors := []asciigraph.AnsiColor{asciigraph.Blue, asciigraph.Red, asciigraph.Green, asciigraph.Yellow}
		opts = append(opts, asciigraph.SeriesColors(colors[:min(len(series), len(colors))]...))
		return asciigraph.PlotMany(series, opts...)
	}
	if len(series) == 0 {
		return ""
	}
	return asciigraph.Plot(series[0], opts...)
}
