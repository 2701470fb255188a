package detection

import (
	"math"

	"github.com/ironsheep/digit-sketch-mcp/internal/imaging"
)

// band is a horizontal strip of the grid searched for a loop.
// StartY is inclusive, EndY exclusive.
type band struct {
	StartY int
	EndY   int
}

// The bands are derived from fractions of the grid height: the top band
// spans 2 to floor(0.4*h), the bottom band floor(0.6*h) to h-2.
var (
	topBand    = band{StartY: 2, EndY: int(math.Floor(size * 0.4))}
	bottomBand = band{StartY: int(math.Floor(size * 0.6)), EndY: size - 2}
)

const (
	loopMinRadius     = 3
	loopMaxRadius     = 7
	loopSamples       = 16 // angular step of pi/8
	loopRingFraction  = 0.5
	loopRingsRequired = 2
)

// detectLoop reports whether a closed curve surrounds the center of b.
//
// Concentric rings of radius 3..7 are sampled around (14, midpoint of b).
// A ring is "inked" when more than half of its in-band sample points are
// ink; the band holds a loop when at least two rings are inked.
func detectLoop(grid *imaging.Grid, b band) bool {
	cx := float64(size / 2)
	cy := float64(b.StartY+b.EndY) / 2

	rings := 0
	for r := loopMinRadius; r <= loopMaxRadius; r++ {
		inked, sampled := 0, 0
		for i := 0; i < loopSamples; i++ {
			angle := float64(i) * math.Pi / 8
			x := int(math.Floor(cx + float64(r)*math.Cos(angle)))
			y := int(math.Floor(cy + float64(r)*math.Sin(angle)))

			if x < 0 || x >= size || y < b.StartY || y >= b.EndY {
				continue
			}
			sampled++
			if isInk(grid.At(x, y)) {
				inked++
			}
		}

		if sampled > 0 && float64(inked)/float64(sampled) > loopRingFraction {
			rings++
		}
	}

	return rings >= loopRingsRequired
}
