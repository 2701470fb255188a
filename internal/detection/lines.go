package detection

import (
	"math"

	"github.com/ironsheep/digit-sketch-mcp/internal/imaging"
)

// Line scans look at the middle 30%..70% of the grid for a stroke that
// crosses most of the grid, ignoring a 2-cell margin on the crossing axis.
var (
	lineScanStart = int(math.Floor(size * 0.3))
	lineScanEnd   = int(math.Floor(size * 0.7))
)

const (
	lineMargin         = 2
	verticalFraction   = 0.5 // of grid height
	horizontalFraction = 0.4 // of grid width
)

// detectVerticalLine reports whether some central column holds more ink
// cells than half the grid height.
func detectVerticalLine(grid *imaging.Grid) bool {
	best := 0
	for x := lineScanStart; x < lineScanEnd; x++ {
		n := 0
		for y := lineMargin; y < size-lineMargin; y++ {
			if isInk(grid.At(x, y)) {
				n++
			}
		}
		if n > best {
			best = n
		}
	}
	return float64(best) > size*verticalFraction
}

// detectHorizontalLine reports whether some central row holds more ink
// cells than 40% of the grid width.
func detectHorizontalLine(grid *imaging.Grid) bool {
	best := 0
	for y := lineScanStart; y < lineScanEnd; y++ {
		n := 0
		for x := lineMargin; x < size-lineMargin; x++ {
			if isInk(grid.At(x, y)) {
				n++
			}
		}
		if n > best {
			best = n
		}
	}
	return float64(best) > size*horizontalFraction
}
