// Package ocr reads a single handwritten digit with Tesseract.
//
// It is a cross-check for the heuristic classifier, never an input to it:
// the server reports both answers side by side so a client can see where
// the rules and a trained recogniser disagree.
//
// # Prerequisites
//
// Tesseract and its language data must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// # Preparation
//
// Drawings are usually small canvases with transparent backgrounds, which
// Tesseract handles poorly. Before recognition the drawing is flattened onto
// white, scaled up so its height is at least 96 pixels, and given a white
// margin. Recognition runs in single-character mode restricted to 0-9.
package ocr
