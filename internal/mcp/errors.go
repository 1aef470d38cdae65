// Package mcp exposes the publication site as a Model Context Protocol
// tool server over stdio.
package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/digital-finance/labsite/internal/catalog"
	laberrors "github.com/digital-finance/labsite/internal/errors"
	"github.com/digital-finance/labsite/internal/facet"
	"github.com/digital-finance/labsite/internal/index"
)

// Custom MCP error codes for labsite.
const (
	// ErrCodeIndexNotReady indicates the search index has not been built.
	ErrCodeIndexNotReady = -32001

	// ErrCodeCatalogNotReady indicates publication data is still loading.
	ErrCodeCatalogNotReady = -32002

	// ErrCodeTimeout indicates the request timed out.
	ErrCodeTimeout = -32003

	// ErrCodeDataUnavailable indicates a data file could not be read.
	ErrCodeDataUnavailable = -32004

	// Standard JSON-RPC error codes.
	ErrCodeMethodNotFound = -32601
	ErrCodeInvalidParams  = -32602
	ErrCodeInternalError  = -32603
)

var (
	// ErrToolNotFound indicates the requested tool does not exist.
	ErrToolNotFound = errors.New("tool not found")

	// ErrResourceNotFound indicates the requested resource does not exist.
	ErrResourceNotFound = errors.New("resource not found")
)

// MCPError is an MCP protocol error with code and message.
type MCPError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// MapError converts internal errors to MCP errors.
func MapError(err error) *MCPError {
	if err == nil {
		return nil
	}

	var mcpErr *MCPError
	if errors.As(err, &mcpErr) {
		return mcpErr
	}

	var labErr *laberrors.LabError
	if errors.As(err, &labErr) {
		return mapLabError(labErr)
	}

	switch {
	case errors.Is(err, facet.ErrInvalidSelection):
		return &MCPError{Code: ErrCodeInvalidParams, Message: err.Error()}
	case errors.Is(err, index.ErrIndexNotReady):
		return &MCPError{
			Code:    ErrCodeIndexNotReady,
			Message: "Search index is still being built. Try again shortly.",
		}
	case errors.Is(err, catalog.ErrCatalogNotReady):
		return &MCPError{
			Code:    ErrCodeCatalogNotReady,
			Message: "Publication data is not loaded yet.",
		}
	case errors.Is(err, context.DeadlineExceeded):
		return &MCPError{Code: ErrCodeTimeout, Message: "Request timed out."}
	case errors.Is(err, context.Canceled):
		return &MCPError{Code: ErrCodeTimeout, Message: "Request was canceled."}
	case errors.Is(err, ErrToolNotFound):
		return &MCPError{Code: ErrCodeMethodNotFound, Message: "Tool not found."}
	case errors.Is(err, ErrResourceNotFound):
		return &MCPError{Code: ErrCodeMethodNotFound, Message: "Resource not found."}
	default:
		return &MCPError{Code: ErrCodeInternalError, Message: "Internal server error."}
	}
}

// NewInvalidParamsError creates an error for invalid parameters.
func NewInvalidParamsError(msg string) *MCPError {
	return &MCPError{Code: ErrCodeInvalidParams, Message: msg}
}

// NewMethodNotFoundError creates an error for unknown tools.
func NewMethodNotFoundError(name string) *MCPError {
	return &MCPError{
		Code:    ErrCodeMethodNotFound,
		Message: fmt.Sprintf("Tool '%s' not found.", name),
	}
}

// NewResourceNotFoundError creates an error for unknown resources.
func NewResourceNotFoundError(uri string) *MCPError {
	return &MCPError{
		Code:    ErrCodeMethodNotFound,
		Message: fmt.Sprintf("Resource '%s' not found.", uri),
	}
}

func mapLabError(le *laberrors.LabError) *MCPError {
	message := le.Message
	if le.Suggestion != "" {
		message = fmt.Sprintf("%s %s", le.Message, le.Suggestion)
	}

	switch le.Category {
	case laberrors.CategoryValidation:
		return &MCPError{Code: ErrCodeInvalidParams, Message: message}
	case laberrors.CategoryNetwork:
		return &MCPError{Code: ErrCodeTimeout, Message: message}
	case laberrors.CategoryIO:
		return &MCPError{Code: ErrCodeDataUnavailable, Message: message}
	default:
		if le.Code == laberrors.ErrCodeCatalogTimeout {
			return &MCPError{Code: ErrCodeCatalogNotReady, Message: message}
		}
		return &MCPError{Code: ErrCodeInternalError, Message: message}
	}
}
