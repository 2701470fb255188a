package ocr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

const (
	// MinHeight is the height drawings are scaled up to before recognition.
	MinHeight = 96

	// Margin is the white border added around the drawing, in pixels.
	Margin = 16

	digitWhitelist = "0123456789"
)

// ErrEmptyImage is returned for a nil image or one without pixels.
var ErrEmptyImage = errors.New("image has no pixels")

// DigitReading is Tesseract's reading of a drawing.
type DigitReading struct {
	// Text is the raw recognised text, trimmed.
	Text string `json:"text"`

	// Digit is the first digit in Text, or -1 when nothing was recognised.
	Digit int `json:"digit"`

	// Confidence is Tesseract's symbol confidence in [0,1], 0 when unknown.
	Confidence float64 `json:"confidence"`
}

// Recognized reports whether a digit was read.
func (r *DigitReading) Recognized() bool {
	return r.Digit >= 0
}

// ReadDigit runs single-character recognition over img.
func ReadDigit(img image.Image, language string) (*DigitReading, error) {
	prepared, err := Prepare(img)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, prepared); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(language); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetWhitelist(digitWhitelist); err != nil {
		return nil, fmt.Errorf("failed to set whitelist: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_CHAR); err != nil {
		return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	reading := &DigitReading{Text: strings.TrimSpace(text), Digit: firstDigit(text)}

	// Confidence is best effort; the text is still useful without it.
	if boxes, err := client.GetBoundingBoxes(gosseract.RIL_SYMBOL); err == nil {
		for _, box := range boxes {
			if strings.TrimSpace(box.Word) != "" {
				reading.Confidence = float64(box.Confidence) / 100.0
				break
			}
		}
	}

	return reading, nil
}

// Prepare flattens img onto white, scales it up to MinHeight when shorter,
// and pads it with a white Margin on every side.
func Prepare(img image.Image) (*image.NRGBA, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}

	src := imaging.Clone(img)
	if src.Bounds().Dy() < MinHeight {
		src = imaging.Resize(src, 0, MinHeight, imaging.Lanczos)
	}

	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	canvas := imaging.New(w+2*Margin, h+2*Margin, color.White)
	return imaging.Overlay(canvas, src, image.Pt(Margin, Margin), 1.0), nil
}

func firstDigit(text string) int {
	for _, r := range text {
		if r >= '0' && r <= '9' {
			return int(r - '0')
		}
	}
	return -1
}
