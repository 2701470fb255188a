package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// drawingProperties returns the input properties shared by every tool that
// takes a drawing, merged with extra.
func drawingProperties(extra map[string]interface{}) map[string]interface{} {
	props := map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to the drawing file. Give either path or image_data.",
		},
		"image_data": map[string]interface{}{
			"type":        "string",
			"description": "The drawing as a data URL (data:image/png;base64,...) or bare base64. Give either path or image_data.",
		},
	}
	for k, v := range extra {
		props[k] = v
	}
	return props
}

func digitProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": description,
		"minimum":     0,
		"maximum":     9,
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Prediction
		{
			Name:        "digit_predict",
			Description: "Predict which digit (0-9) a handwritten drawing shows. Returns the digit, a confidence between 0.5 and 0.95, whether it came from a learned correction or the heuristic rules, and the rule that decided.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": drawingProperties(nil),
			},
		},
		{
			Name:        "digit_correct",
			Description: "Teach the predictor that a drawing shows correct_digit although incorrect_prediction was predicted. Later drawings similar to this one are answered with correct_digit. At most 100 corrections are kept; the oldest is dropped first.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": drawingProperties(map[string]interface{}{
					"correct_digit":        digitProperty("The digit the drawing actually shows"),
					"incorrect_prediction": digitProperty("The digit that was predicted"),
				}),
				"required": []string{"correct_digit", "incorrect_prediction"},
			},
		},

		// Inspection
		{
			Name:        "digit_features",
			Description: "Report the structural features of a drawing (ink counts, density, center of mass, loops, lines) and the rule the heuristic cascade would apply. Learned corrections are not consulted.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": drawingProperties(nil),
			},
		},
		{
			Name:        "digit_grid",
			Description: "Render the 28x28 grid the predictor sees as an enlarged heat map PNG (base64). Paper is white and ink is dark.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": drawingProperties(map[string]interface{}{
					"cell_size": map[string]interface{}{
						"type":        "integer",
						"description": "Pixels per grid cell. Default 10",
						"default":     10,
					},
				}),
			},
		},
		{
			Name:        "digit_learned",
			Description: "List the learned corrections in the order they were added, with the store capacity. Set clear to true to forget them all.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"clear": map[string]interface{}{
						"type":        "boolean",
						"description": "Remove every learned correction after listing them. Default false",
						"default":     false,
					},
				},
			},
		},
		{
			Name:        "digit_ocr_crosscheck",
			Description: "Read the drawing with Tesseract in single-character mode and compare with the heuristic prediction. For comparison only; the result never changes predictions.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": drawingProperties(map[string]interface{}{
					"language": map[string]interface{}{
						"type":        "string",
						"description": "Tesseract language code. Defaults to the server's configured language",
					},
				}),
			},
		},

		// Files
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and the scale factors to the 28x28 grid. Caches it for subsequent calls by path.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
