// Package mcp provides an MCP (Model Context Protocol) server adapter for scholardocs.
// It lets AI assistants look up document checklists and prepare upload-ready PDFs.
package mcp

import "errors"

// ErrMissingRequirementService is returned when the requirement service is not provided.
var ErrMissingRequirementService = errors.New("mcp: requirement service is required")

// ErrToolsUnavailable is returned by run_document_tool when no tool service is wired.
var ErrToolsUnavailable = errors.New("mcp: document tools are not available")
