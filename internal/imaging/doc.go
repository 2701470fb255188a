// Package imaging turns digit drawings into normalized ink grids.
//
// A drawing arrives as an encoded raster (a canvas data URL, bare base64, or a
// file on disk) and is reduced to a Grid: 28x28 intensities in [0,1] where 0
// is paper and 1 is solid ink. Everything downstream (feature detection,
// learned-example matching) works on Grids only.
//
// # Coordinate System
//
// Grid cells are addressed 0-based with the origin at the top-left corner:
//   - X: column, 0 = leftmost
//   - Y: row, 0 = topmost
//   - Index into the backing array is y*GridSize + x
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. Preprocess, DecodeDrawing and
// RenderGrid are stateless.
//
// # Error Handling
//
// Undecodable or empty rasters are reported as *DecodeError regardless of
// which entry point received them. File system errors from ImageCache.Load
// are wrapped plain errors.
package imaging
