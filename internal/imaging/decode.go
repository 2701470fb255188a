package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"strings"

	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// DecodeError reports a raster that could not be decoded into an image.
//
// It is returned for malformed data URLs, invalid base64, unsupported or
// corrupt image payloads, and images with no pixels. Use errors.As to detect it:
//
//	var decErr *imaging.DecodeError
//	if errors.As(err, &decErr) { ... }
type DecodeError struct {
	// Source describes where the raster came from ("data-url", "base64", a file path).
	Source string

	// Err is the underlying cause.
	Err error
}

func (e *DecodeError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("decode drawing: %v", e.Err)
	}
	return fmt.Sprintf("decode drawing (%s): %v", e.Source, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// DecodeDrawing decodes a drawing supplied as a string.
//
// Two forms are accepted:
//   - A data URL such as "data:image/png;base64,iVBORw0...", the format a
//     browser canvas produces with toDataURL().
//   - Bare standard base64 of an encoded image.
//
// Any format registered with the image package is accepted (PNG, JPEG, GIF,
// BMP, TIFF, WebP). All failures are returned as *DecodeError.
func DecodeDrawing(data string) (image.Image, error) {
	data = strings.TrimSpace(data)
	if data == "" {
		return nil, &DecodeError{Source: "base64", Err: fmt.Errorf("empty drawing data")}
	}

	source := "base64"
	payload := data
	if strings.HasPrefix(data, "data:") {
		source = "data-url"
		comma := strings.IndexByte(data, ',')
		if comma < 0 {
			return nil, &DecodeError{Source: source, Err: fmt.Errorf("missing ',' separator")}
		}
		header := data[len("data:"):comma]
		if !strings.HasSuffix(header, ";base64") {
			return nil, &DecodeError{Source: source, Err: fmt.Errorf("only base64 data URLs are supported, got %q", header)}
		}
		payload = data[comma+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, &DecodeError{Source: source, Err: fmt.Errorf("invalid base64: %w", err)}
	}

	img, err := decode(bytes.NewReader(raw))
	if err != nil {
		return nil, &DecodeError{Source: source, Err: err}
	}
	return img, nil
}

// DecodeReader decodes a drawing from an encoded image stream.
func DecodeReader(r io.Reader) (image.Image, error) {
	img, err := decode(r)
	if err != nil {
		return nil, &DecodeError{Source: "reader", Err: err}
	}
	return img, nil
}

func decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("image has no pixels")
	}
	return img, nil
}
