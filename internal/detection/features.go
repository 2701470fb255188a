package detection

import (
	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/digit-sketch-mcp/internal/imaging"
)

// InkThreshold is the intensity above which a grid cell counts as ink.
const InkThreshold = 0.1

const (
	size = imaging.GridSize
	half = size / 2
)

// Point is a sub-cell position on the grid.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// FeatureSet describes the structure of a drawing.
//
// Counts are numbers of ink cells. The half-grid counts overlap: every ink
// cell is in exactly one of Top/Bottom and exactly one of Left/Right.
type FeatureSet struct {
	TotalInkPixels int     `json:"total_ink_pixels"`
	Density        float64 `json:"density"`
	CenterOfMass   Point   `json:"center_of_mass"`
	EdgePixelCount int     `json:"edge_pixel_count"`

	TopCount    int `json:"top_count"`
	BottomCount int `json:"bottom_count"`
	LeftCount   int `json:"left_count"`
	RightCount  int `json:"right_count"`

	HasTopLoop        bool `json:"has_top_loop"`
	HasBottomLoop     bool `json:"has_bottom_loop"`
	HasVerticalLine   bool `json:"has_vertical_line"`
	HasHorizontalLine bool `json:"has_horizontal_line"`
}

// Extract computes the FeatureSet of a grid. It is a pure function.
func Extract(grid imaging.Grid) FeatureSet {
	total := countInk(&grid)
	return FeatureSet{
		TotalInkPixels: total,
		Density:        float64(total) / float64(imaging.GridCells),
		CenterOfMass:   centerOfMass(&grid),
		EdgePixelCount: countEdgePixels(&grid),

		TopCount:    countRegion(&grid, 0, 0, size, half),
		BottomCount: countRegion(&grid, 0, half, size, half),
		LeftCount:   countRegion(&grid, 0, 0, half, size),
		RightCount:  countRegion(&grid, half, 0, half, size),

		HasTopLoop:        detectLoop(&grid, topBand),
		HasBottomLoop:     detectLoop(&grid, bottomBand),
		HasVerticalLine:   detectVerticalLine(&grid),
		HasHorizontalLine: detectHorizontalLine(&grid),
	}
}

func isInk(v float64) bool {
	return v > InkThreshold
}

func countInk(grid *imaging.Grid) int {
	n := 0
	for _, v := range grid {
		if isInk(v) {
			n++
		}
	}
	return n
}

// centerOfMass returns the intensity-weighted centroid of the ink cells, or
// the grid center when there is no ink.
func centerOfMass(grid *imaging.Grid) Point {
	xs := make([]float64, 0, imaging.GridCells)
	ys := make([]float64, 0, imaging.GridCells)
	weights := make([]float64, 0, imaging.GridCells)

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			v := grid.At(x, y)
			if !isInk(v) {
				continue
			}
			xs = append(xs, float64(x))
			ys = append(ys, float64(y))
			weights = append(weights, v)
		}
	}

	if len(weights) == 0 {
		return Point{X: float64(size) / 2, Y: float64(size) / 2}
	}
	return Point{
		X: stat.Mean(xs, weights),
		Y: stat.Mean(ys, weights),
	}
}

// countEdgePixels counts ink cells with at least one non-ink 4-neighbour.
// The outermost ring of cells is skipped so every neighbour is in bounds.
func countEdgePixels(grid *imaging.Grid) int {
	count := 0
	for y := 1; y < size-1; y++ {
		for x := 1; x < size-1; x++ {
			if !isInk(grid.At(x, y)) {
				continue
			}
			if !isInk(grid.At(x, y-1)) || !isInk(grid.At(x, y+1)) ||
				!isInk(grid.At(x-1, y)) || !isInk(grid.At(x+1, y)) {
				count++
			}
		}
	}
	return count
}

// countRegion counts ink cells in the rectangle starting at (x0, y0) with the
// given width and height, clipped to the grid.
func countRegion(grid *imaging.Grid, x0, y0, width, height int) int {
	count := 0
	for y := y0; y < y0+height && y < size; y++ {
		for x := x0; x < x0+width && x < size; x++ {
			if isInk(grid.At(x, y)) {
				count++
			}
		}
	}
	return count
}
