// Package server implements the MCP (Model Context Protocol) server for the
// digit predictor.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Prediction:
//   - digit_predict: Predict the digit in a drawing
//   - digit_correct: Record the right answer for a drawing
//
// Inspection:
//   - digit_features: Structural features and the rule that would apply
//   - digit_grid: The 28x28 grid rendered as a heat map
//   - digit_learned: List or clear learned corrections
//   - digit_ocr_crosscheck: Tesseract's reading for comparison
//
// Files:
//   - image_load: Load a drawing file and get metadata
//
// Drawing tools take either a file path or image_data, a data URL or bare
// base64 string as produced by a canvas toDataURL call. Files are cached by
// path for the lifetime of the process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// Lines that are not valid JSON get a -32700 parse error with a null id.
//
// # Usage
//
//	srv := server.New(svc, server.WithLogger(logger))
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
