// Package service wires the MCP transport to the sheet tools.
//
// It owns server construction and tool registration; tool meaning lives in
// the domain package.
package service
