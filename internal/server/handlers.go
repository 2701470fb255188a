package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/digit-sketch-mcp/internal/classifier"
	"github.com/ironsheep/digit-sketch-mcp/internal/imaging"
	"github.com/ironsheep/digit-sketch-mcp/internal/learning"
	"github.com/ironsheep/digit-sketch-mcp/internal/ocr"
	"github.com/ironsheep/digit-sketch-mcp/internal/prediction"
)

const (
	defaultCellSize = 10
	maxCellSize     = 64
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "digit_predict").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("tool execution failed", "tool", params.Name, "error", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Prediction
	case "digit_predict":
		return s.handleDigitPredict(args)
	case "digit_correct":
		return s.handleDigitCorrect(args)

	// Inspection
	case "digit_features":
		return s.handleDigitFeatures(args)
	case "digit_grid":
		return s.handleDigitGrid(args)
	case "digit_learned":
		return s.handleDigitLearned(args)
	case "digit_ocr_crosscheck":
		return s.handleDigitOCRCrosscheck(args)

	// Files
	case "image_load":
		return s.handleImageLoad(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// drawingArgs names a drawing either by file path or inline data.
type drawingArgs struct {
	Path      string `json:"path"`
	ImageData string `json:"image_data"`
}

// loadDrawing resolves the drawing named by a. Exactly one of Path and
// ImageData must be set. Files go through the image cache.
func (s *Server) loadDrawing(a drawingArgs) (image.Image, error) {
	switch {
	case a.Path != "" && a.ImageData != "":
		return nil, errors.New("give either path or image_data, not both")
	case a.Path != "":
		return s.cache.Load(a.Path)
	case a.ImageData != "":
		return imaging.DecodeDrawing(a.ImageData)
	default:
		return nil, errors.New("a drawing is required: set path or image_data")
	}
}

// === Prediction Handlers ===

func (s *Server) handleDigitPredict(args json.RawMessage) (interface{}, error) {
	var a drawingArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.loadDrawing(a)
	if err != nil {
		return nil, &prediction.PredictionError{Err: err}
	}
	return s.service.Predict(img)
}

type digitCorrectArgs struct {
	drawingArgs
	CorrectDigit        *int `json:"correct_digit"`
	IncorrectPrediction *int `json:"incorrect_prediction"`
}

// DigitCorrectResult reports a stored correction.
type DigitCorrectResult struct {
	Example  learning.Summary `json:"example"`
	Examples int              `json:"examples"`
	Capacity int              `json:"capacity"`
}

func (s *Server) handleDigitCorrect(args json.RawMessage) (interface{}, error) {
	var a digitCorrectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.CorrectDigit == nil {
		return nil, errors.New("correct_digit is required")
	}
	if a.IncorrectPrediction == nil {
		return nil, errors.New("incorrect_prediction is required")
	}

	img, err := s.loadDrawing(a.drawingArgs)
	if err != nil {
		return nil, &prediction.PredictionError{Err: err}
	}

	ex, err := s.service.Correct(img, *a.CorrectDigit, *a.IncorrectPrediction)
	if err != nil {
		return nil, err
	}

	store := s.service.Store()
	return &DigitCorrectResult{
		Example:  ex.Summary(),
		Examples: store.Len(),
		Capacity: store.Capacity(),
	}, nil
}

// === Inspection Handlers ===

func (s *Server) handleDigitFeatures(args json.RawMessage) (interface{}, error) {
	var a drawingArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.loadDrawing(a)
	if err != nil {
		return nil, &prediction.PredictionError{Err: err}
	}
	return s.service.Analyze(img)
}

type digitGridArgs struct {
	drawingArgs
	CellSize int `json:"cell_size"`
}

func (s *Server) handleDigitGrid(args json.RawMessage) (interface{}, error) {
	var a digitGridArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.CellSize == 0 {
		a.CellSize = defaultCellSize
	}
	if a.CellSize < 1 || a.CellSize > maxCellSize {
		return nil, fmt.Errorf("cell_size must be between 1 and %d, got %d", maxCellSize, a.CellSize)
	}

	img, err := s.loadDrawing(a.drawingArgs)
	if err != nil {
		return nil, &prediction.PredictionError{Err: err}
	}
	grid, err := imaging.Preprocess(img)
	if err != nil {
		return nil, &prediction.PredictionError{Err: err}
	}
	return imaging.RenderGrid(grid, a.CellSize)
}

type digitLearnedArgs struct {
	Clear bool `json:"clear"`
}

// DigitLearnedResult lists the learned corrections.
type DigitLearnedResult struct {
	Count    int                `json:"count"`
	Capacity int                `json:"capacity"`
	Examples []learning.Summary `json:"examples"`
	Cleared  bool               `json:"cleared"`
}

func (s *Server) handleDigitLearned(args json.RawMessage) (interface{}, error) {
	var a digitLearnedArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	store := s.service.Store()
	examples := store.Examples()
	result := &DigitLearnedResult{
		Count:    len(examples),
		Capacity: store.Capacity(),
		Examples: make([]learning.Summary, 0, len(examples)),
	}
	for _, ex := range examples {
		result.Examples = append(result.Examples, ex.Summary())
	}

	if a.Clear {
		store.Clear()
		result.Cleared = true
		s.logger.Info("learned examples cleared", "removed", len(examples))
	}
	return result, nil
}

type digitOCRArgs struct {
	drawingArgs
	Language string `json:"language"`
}

// DigitCrosscheckResult sets Tesseract's reading beside the heuristic one.
type DigitCrosscheckResult struct {
	OCR       *ocr.DigitReading   `json:"ocr"`
	Heuristic classifier.Decision `json:"heuristic"`
	Agree     bool                `json:"agree"`
}

func (s *Server) handleDigitOCRCrosscheck(args json.RawMessage) (interface{}, error) {
	var a digitOCRArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Language == "" {
		a.Language = s.ocrLanguage
	}

	img, err := s.loadDrawing(a.drawingArgs)
	if err != nil {
		return nil, &prediction.PredictionError{Err: err}
	}
	analysis, err := s.service.Analyze(img)
	if err != nil {
		return nil, err
	}

	reading, err := ocr.ReadDigit(img, a.Language)
	if err != nil {
		return nil, fmt.Errorf("OCR cross-check failed: %w", err)
	}

	return &DigitCrosscheckResult{
		OCR:       reading,
		Heuristic: analysis.Decision,
		Agree:     reading.Recognized() && reading.Digit == analysis.Decision.Digit,
	}, nil
}

// === File Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}
