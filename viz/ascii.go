package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
)

// ASCIIDensity renders the kernel density of values as a terminal chart
// width columns wide and height rows tall.
func ASCIIDensity(values []float64, width, height int, caption string) (string, error) {
	kde, err := NewKDE(values)
	if err != nil {
		return "", err
	}
	lo, hi := kde.Range(DefaultCut)
	_, ys := kde.Grid(width, DefaultCut)

	if caption != "" {
		caption = fmt.Sprintf("%s [%.3f, %.3f]", caption, lo, hi)
	}
	return asciigraph.Plot(ys,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	), nil
}
