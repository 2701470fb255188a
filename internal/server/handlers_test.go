package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/digit-sketch-mcp/internal/imaging"
	"github.com/ironsheep/digit-sketch-mcp/internal/prediction"
)

// verticalStrokeImage is a 28x28 white drawing with a one-pixel black column
// at x=14, which the rules read as a one.
func verticalStrokeImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 28, 28))
	for y := 0; y < 28; y++ {
		for x := 0; x < 28; x++ {
			img.Set(x, y, color.White)
		}
		img.Set(14, y, color.Black)
	}
	return img
}

func dataURL(t *testing.T, img image.Image) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

// createTestImageFile writes img as a PNG in a temp dir and returns its path.
func createTestImageFile(t *testing.T, img image.Image) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "drawing.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

func callTool(t *testing.T, s *Server, name string, args interface{}) *MCPResponse {
	t.Helper()

	params, err := json.Marshal(map[string]interface{}{"name": name, "arguments": args})
	if err != nil {
		t.Fatalf("failed to marshal params: %v", err)
	}
	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  params,
	})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	return resp
}

// decodeToolText unpacks the JSON text content of a tool result into v.
func decodeToolText(t *testing.T, result interface{}, v interface{}) {
	t.Helper()

	raw, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("failed to marshal result: %v", err)
	}
	var wrapped struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		t.Fatalf("unexpected result shape: %v", err)
	}
	if len(wrapped.Content) != 1 || wrapped.Content[0].Type != "text" {
		t.Fatalf("unexpected content: %+v", wrapped.Content)
	}
	if err := json.Unmarshal([]byte(wrapped.Content[0].Text), v); err != nil {
		t.Fatalf("tool text is not JSON: %v", err)
	}
}

func expectToolError(t *testing.T, resp *MCPResponse, contains string) {
	t.Helper()

	if resp.Error == nil {
		t.Fatalf("expected error containing %q, got result", contains)
	}
	if resp.Error.Code != -32000 {
		t.Errorf("Error code: got %d, want -32000", resp.Error.Code)
	}
	data, _ := resp.Error.Data.(string)
	if !strings.Contains(data, contains) {
		t.Errorf("error data %q does not contain %q", data, contains)
	}
}

func TestHandleToolsCall_DigitPredict(t *testing.T) {
	s := newTestServer(t)
	resp := callTool(t, s, "digit_predict", map[string]interface{}{
		"image_data": dataURL(t, verticalStrokeImage()),
	})
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %+v", resp.Error)
	}

	var out prediction.Outcome
	decodeToolText(t, resp.Result, &out)

	if out.Digit != 1 {
		t.Errorf("digit: got %d, want 1", out.Digit)
	}
	if out.Source != prediction.SourceHeuristic {
		t.Errorf("source: got %s, want %s", out.Source, prediction.SourceHeuristic)
	}
	if out.Confidence < prediction.MinConfidence || out.Confidence > prediction.MaxConfidence {
		t.Errorf("confidence %v out of range", out.Confidence)
	}
}

func TestHandleToolsCall_DigitPredict_Path(t *testing.T) {
	s := newTestServer(t)
	path := createTestImageFile(t, verticalStrokeImage())

	resp := callTool(t, s, "digit_predict", map[string]interface{}{"path": path})
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %+v", resp.Error)
	}

	var out prediction.Outcome
	decodeToolText(t, resp.Result, &out)
	if out.Digit != 1 {
		t.Errorf("digit: got %d, want 1", out.Digit)
	}
	if s.cache.Len() != 1 {
		t.Errorf("cache should hold the drawing, has %d entries", s.cache.Len())
	}
}

func TestHandleToolsCall_DigitPredict_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     map[string]interface{}
		contains string
	}{
		{"no drawing", map[string]interface{}{}, "a drawing is required"},
		{"both inputs", map[string]interface{}{"path": "/x.png", "image_data": "abcd"}, "not both"},
		{"bad base64", map[string]interface{}{"image_data": "data:image/png;base64,@@@"}, "failed to predict digit"},
		{"missing file", map[string]interface{}{"path": "/nonexistent/drawing.png"}, "failed to predict digit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			expectToolError(t, callTool(t, s, "digit_predict", tt.args), tt.contains)
		})
	}
}

func TestHandleToolsCall_DigitCorrect(t *testing.T) {
	s := newTestServer(t)
	drawing := dataURL(t, verticalStrokeImage())

	resp := callTool(t, s, "digit_correct", map[string]interface{}{
		"image_data":           drawing,
		"correct_digit":        7,
		"incorrect_prediction": 1,
	})
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %+v", resp.Error)
	}

	var stored DigitCorrectResult
	decodeToolText(t, resp.Result, &stored)
	if stored.Example.CorrectDigit != 7 || stored.Example.IncorrectPrediction != 1 {
		t.Errorf("stored example: %+v", stored.Example)
	}
	if stored.Example.ID == "" {
		t.Error("stored example has no ID")
	}
	if stored.Examples != 1 || stored.Capacity != 100 {
		t.Errorf("store size %d / %d, want 1 / 100", stored.Examples, stored.Capacity)
	}

	resp = callTool(t, s, "digit_predict", map[string]interface{}{"image_data": drawing})
	var out prediction.Outcome
	decodeToolText(t, resp.Result, &out)
	if out.Digit != 7 || out.Source != prediction.SourceLearned {
		t.Errorf("after correction: got %d from %s, want 7 from learned", out.Digit, out.Source)
	}
}

func TestHandleToolsCall_DigitCorrect_Errors(t *testing.T) {
	drawing := dataURL(t, verticalStrokeImage())

	tests := []struct {
		name     string
		args     map[string]interface{}
		contains string
	}{
		{"missing correct digit", map[string]interface{}{"incorrect_prediction": 1}, "correct_digit is required"},
		{"missing incorrect prediction", map[string]interface{}{"correct_digit": 1}, "incorrect_prediction is required"},
		{"correct digit out of range", map[string]interface{}{"correct_digit": 12, "incorrect_prediction": 1}, "digit must be between 0 and 9"},
		{"negative prediction", map[string]interface{}{"correct_digit": 3, "incorrect_prediction": -1}, "digit must be between 0 and 9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			tt.args["image_data"] = drawing

			expectToolError(t, callTool(t, s, "digit_correct", tt.args), tt.contains)
			if n := s.service.Store().Len(); n != 0 {
				t.Errorf("store grew to %d on error", n)
			}
		})
	}
}

func TestHandleToolsCall_DigitFeatures(t *testing.T) {
	s := newTestServer(t)
	resp := callTool(t, s, "digit_features", map[string]interface{}{
		"image_data": dataURL(t, verticalStrokeImage()),
	})
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %+v", resp.Error)
	}

	var a prediction.Analysis
	decodeToolText(t, resp.Result, &a)

	if a.Features.TotalInkPixels != 28 {
		t.Errorf("total ink: got %d, want 28", a.Features.TotalInkPixels)
	}
	if !a.Features.HasVerticalLine || a.Features.HasHorizontalLine {
		t.Errorf("lines: vertical=%v horizontal=%v", a.Features.HasVerticalLine, a.Features.HasHorizontalLine)
	}
	if a.Decision.Digit != 1 || a.Decision.Fallback {
		t.Errorf("decision: %+v", a.Decision)
	}
}

func TestHandleToolsCall_DigitGrid(t *testing.T) {
	tests := []struct {
		name     string
		cellSize int
		wantSize int
	}{
		{"default", 0, 28 * defaultCellSize},
		{"small cells", 3, 84},
		{"one pixel cells", 1, 28},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			args := map[string]interface{}{"image_data": dataURL(t, verticalStrokeImage())}
			if tt.cellSize != 0 {
				args["cell_size"] = tt.cellSize
			}

			resp := callTool(t, s, "digit_grid", args)
			if resp.Error != nil {
				t.Fatalf("Unexpected error: %+v", resp.Error)
			}

			var r imaging.GridRenderResult
			decodeToolText(t, resp.Result, &r)
			if r.Width != tt.wantSize || r.Height != tt.wantSize {
				t.Errorf("size: got %dx%d, want %d", r.Width, r.Height, tt.wantSize)
			}

			data, err := base64.StdEncoding.DecodeString(r.ImageBase64)
			if err != nil {
				t.Fatalf("image is not base64: %v", err)
			}
			img, err := png.Decode(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("image is not PNG: %v", err)
			}
			if img.Bounds().Dx() != tt.wantSize {
				t.Errorf("PNG width: got %d, want %d", img.Bounds().Dx(), tt.wantSize)
			}
		})
	}
}

func TestHandleToolsCall_DigitGrid_CellSizeTooLarge(t *testing.T) {
	s := newTestServer(t)
	resp := callTool(t, s, "digit_grid", map[string]interface{}{
		"image_data": dataURL(t, verticalStrokeImage()),
		"cell_size":  maxCellSize + 1,
	})
	expectToolError(t, resp, "cell_size must be between")
}

func TestHandleToolsCall_DigitLearned(t *testing.T) {
	s := newTestServer(t)
	drawing := dataURL(t, verticalStrokeImage())

	for _, digit := range []int{4, 9} {
		resp := callTool(t, s, "digit_correct", map[string]interface{}{
			"image_data":           drawing,
			"correct_digit":        digit,
			"incorrect_prediction": 1,
		})
		if resp.Error != nil {
			t.Fatalf("Unexpected error: %+v", resp.Error)
		}
	}

	var listed DigitLearnedResult
	decodeToolText(t, callTool(t, s, "digit_learned", map[string]interface{}{}).Result, &listed)

	if listed.Count != 2 || len(listed.Examples) != 2 {
		t.Fatalf("count: got %d (%d examples), want 2", listed.Count, len(listed.Examples))
	}
	if listed.Examples[0].CorrectDigit != 4 || listed.Examples[1].CorrectDigit != 9 {
		t.Errorf("examples out of insertion order: %+v", listed.Examples)
	}
	if listed.Cleared {
		t.Error("listing without clear reported cleared")
	}

	var cleared DigitLearnedResult
	decodeToolText(t, callTool(t, s, "digit_learned", map[string]interface{}{"clear": true}).Result, &cleared)
	if !cleared.Cleared || cleared.Count != 2 {
		t.Errorf("clear result: %+v", cleared)
	}
	if n := s.service.Store().Len(); n != 0 {
		t.Errorf("store holds %d examples after clear", n)
	}
}

func TestHandleToolsCall_DigitOCRCrosscheck(t *testing.T) {
	s := newTestServer(t)
	resp := callTool(t, s, "digit_ocr_crosscheck", map[string]interface{}{
		"image_data": dataURL(t, verticalStrokeImage()),
	})
	if resp.Error != nil {
		data, _ := resp.Error.Data.(string)
		if strings.Contains(strings.ToLower(data), "tesseract") ||
			strings.Contains(strings.ToLower(data), "language") {
			t.Skip("Tesseract not available")
		}
		t.Fatalf("Unexpected error: %+v", resp.Error)
	}

	var r DigitCrosscheckResult
	decodeToolText(t, resp.Result, &r)
	if r.OCR == nil {
		t.Fatal("missing OCR reading")
	}
	if r.Heuristic.Digit != 1 {
		t.Errorf("heuristic digit: got %d, want 1", r.Heuristic.Digit)
	}
	if r.Agree != (r.OCR.Digit == 1) {
		t.Errorf("agree=%v but OCR read %d", r.Agree, r.OCR.Digit)
	}
	if s.service.Store().Len() != 0 {
		t.Error("cross-check must not touch learned examples")
	}
}

func TestHandleToolsCall_DigitOCRCrosscheck_NoDrawing(t *testing.T) {
	s := newTestServer(t)
	expectToolError(t, callTool(t, s, "digit_ocr_crosscheck", map[string]interface{}{}), "a drawing is required")
}

func TestHandleToolsCall_ImageLoad(t *testing.T) {
	s := newTestServer(t)
	path := createTestImageFile(t, verticalStrokeImage())

	resp := callTool(t, s, "image_load", map[string]interface{}{"path": path})
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %+v", resp.Error)
	}

	var info imaging.ImageInfo
	decodeToolText(t, resp.Result, &info)
	if info.Width != 28 || info.Height != 28 {
		t.Errorf("size: got %dx%d, want 28x28", info.Width, info.Height)
	}
	if info.Format != "png" {
		t.Errorf("format: got %s, want png", info.Format)
	}
	if info.ScaleX != 1 || info.ScaleY != 1 {
		t.Errorf("scale: got %v,%v, want 1,1", info.ScaleX, info.ScaleY)
	}
}

func TestHandleToolsCall_ImageLoad_Errors(t *testing.T) {
	s := newTestServer(t)
	expectToolError(t, callTool(t, s, "image_load", map[string]interface{}{}), "path is required")
	expectToolError(t, callTool(t, s, "image_load", map[string]interface{}{"path": "/nonexistent/image.png"}), "nonexistent")
}

func TestHandleToolsCall_InvalidTool(t *testing.T) {
	s := newTestServer(t)
	expectToolError(t, callTool(t, s, "nonexistent_tool", map[string]interface{}{}), "unknown tool")
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := newTestServer(t)
	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  json.RawMessage(`"not an object"`),
	})

	if resp.Error == nil || resp.Error.Code != -32602 {
		t.Errorf("expected -32602, got %+v", resp.Error)
	}
}

func TestExecuteTool_InvalidJSON(t *testing.T) {
	s := newTestServer(t)
	if _, err := s.executeTool("digit_predict", json.RawMessage(`{invalid`)); err == nil {
		t.Error("expected error for invalid JSON arguments")
	}
}

func TestExecuteTool_MissingArguments(t *testing.T) {
	s := newTestServer(t)
	result, err := s.executeTool("digit_learned", nil)
	if err != nil {
		t.Fatalf("digit_learned without arguments failed: %v", err)
	}
	if r := result.(*DigitLearnedResult); r.Count != 0 {
		t.Errorf("count: got %d, want 0", r.Count)
	}
}
