package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

const (
	// GridSize is the width and height of a preprocessed drawing.
	GridSize = 28

	// GridCells is the number of cells in a Grid (GridSize * GridSize).
	GridCells = GridSize * GridSize
)

// Grid is a drawing normalized to 28x28 ink intensities.
//
// Cells are stored row-major (index = y*GridSize + x). Each value lies in
// [0,1] where 0 is blank paper and 1 is solid ink. Grid is an array, so it is
// copied on assignment and a produced Grid is never changed by later calls.
type Grid [GridCells]float64

// At returns the intensity at (x, y). Coordinates must be within the grid.
func (g *Grid) At(x, y int) float64 {
	return g[y*GridSize+x]
}

// Preprocess converts an arbitrary drawing into a Grid.
//
// The drawing is assumed to be dark strokes on a light (or transparent)
// background. Steps:
//
//  1. Resize the whole drawing to 28x28 with a linear filter.
//  2. Composite it over an opaque white 28x28 canvas, so transparent areas
//     read as paper.
//  3. For each cell compute gray = (R+G+B)/3 on 8-bit channels and
//     intensity = (255-gray)/255.
//
// The aspect ratio is not preserved, matching a canvas drawImage into a fixed
// 28x28 target. The only failure is an image with no pixels, reported as
// *DecodeError.
func Preprocess(img image.Image) (Grid, error) {
	var grid Grid
	if img == nil || img.Bounds().Empty() {
		return grid, &DecodeError{Err: fmt.Errorf("image has no pixels")}
	}

	resized := imaging.Resize(img, GridSize, GridSize, imaging.Linear)
	canvas := imaging.New(GridSize, GridSize, color.White)
	canvas = imaging.Overlay(canvas, resized, image.Pt(0, 0), 1.0)

	for y := 0; y < GridSize; y++ {
		for x := 0; x < GridSize; x++ {
			c := canvas.NRGBAAt(x, y)
			gray := (float64(c.R) + float64(c.G) + float64(c.B)) / 3
			grid[y*GridSize+x] = clampUnit((255 - gray) / 255)
		}
	}

	return grid, nil
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
