// Package detection extracts structural features from a digit grid.
//
// Extract reduces an imaging.Grid to a FeatureSet: how much ink there is,
// where it sits, how much of it is outline, and whether the drawing contains
// the archetypal strokes of handwritten digits (an upper loop, a lower loop,
// a central vertical bar, a central horizontal bar).
//
// # Ink
//
// A cell is ink when its intensity exceeds InkThreshold (0.1). Every measure
// in this package is computed over ink cells only.
//
// # Detectors
//
//   - Loops: concentric ring sampling (radius 3..7, 16 points per ring) around
//     the center of the top band (rows 2..10) or bottom band (rows 16..25).
//   - Vertical line: best column in x 8..18 counting rows 2..25, must exceed 14.
//   - Horizontal line: best row in y 8..18 counting columns 2..25, must exceed 11.2.
//
// The thresholds are empirical and kept fixed so that classifications stay
// reproducible across versions.
//
// # Coordinate System
//
// Same as package imaging: origin top-left, X rightward, Y downward.
package detection
