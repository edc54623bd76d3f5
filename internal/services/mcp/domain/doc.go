// Package domain maps MCP tool calls onto the sheet application service.
//
// Tool inputs are plain JSON shapes an agent can write by hand; handlers
// convert them into character snapshots, run the engine and return the
// derived attributes as structured output.
package domain
