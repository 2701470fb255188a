// Package config loads the digit server's settings.
//
// Values come from built-in defaults, an optional YAML file named by
// DIGIT_MCP_CONFIG, and DIGIT_MCP_* environment variables, in increasing order
// of precedence. The result is validated before it is returned.
package config
