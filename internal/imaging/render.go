package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
	"github.com/lucasb-eyer/go-colorful"
)

// Heat map end points: blank cells render as paper, full ink as dark navy.
var (
	paperColor = colorful.Color{R: 1, G: 1, B: 1}
	inkColor   = colorful.Color{R: 0.10, G: 0.10, B: 0.18}
)

// GridRenderResult contains a rendered Grid encoded as base64 PNG.
type GridRenderResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	CellSize    int    `json:"cell_size"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// GridImage converts a Grid into a 28x28 image, blending each cell from paper
// to ink in Lab space by its intensity.
func GridImage(grid Grid) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, GridSize, GridSize))
	for y := 0; y < GridSize; y++ {
		for x := 0; x < GridSize; x++ {
			c := paperColor.BlendLab(inkColor, grid.At(x, y)).Clamped()
			img.Set(x, y, c)
		}
	}
	return img
}

// RenderGrid renders a Grid as an enlarged PNG heat map.
//
// Each cell becomes a cellSize x cellSize block (nearest-neighbour scaling,
// so cell boundaries stay sharp). cellSize values below 1 are treated as 1.
func RenderGrid(grid Grid, cellSize int) (*GridRenderResult, error) {
	if cellSize < 1 {
		cellSize = 1
	}

	img := GridImage(grid)
	size := GridSize * cellSize
	scaled := transform.Resize(img, size, size, transform.NearestNeighbor)

	var buf bytes.Buffer
	if err := imgio.PNGEncoder()(&buf, scaled); err != nil {
		return nil, fmt.Errorf("failed to encode grid image: %w", err)
	}

	return &GridRenderResult{
		Width:       size,
		Height:      size,
		CellSize:    cellSize,
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}
