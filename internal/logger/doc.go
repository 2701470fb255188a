// Package logger configures the process-wide structured logger.
//
// Output always goes to stderr because stdout carries the MCP protocol.
package logger
