package mcp

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/digital-finance/labsite/internal/catalog"
	laberrors "github.com/digital-finance/labsite/internal/errors"
	"github.com/digital-finance/labsite/internal/facet"
	"github.com/digital-finance/labsite/internal/index"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{name: "invalid selection", err: fmt.Errorf("year: %w", facet.ErrInvalidSelection), wantCode: ErrCodeInvalidParams},
		{name: "index not ready", err: index.ErrIndexNotReady, wantCode: ErrCodeIndexNotReady},
		{name: "catalog not ready", err: catalog.ErrCatalogNotReady, wantCode: ErrCodeCatalogNotReady},
		{name: "deadline", err: context.DeadlineExceeded, wantCode: ErrCodeTimeout},
		{name: "canceled", err: context.Canceled, wantCode: ErrCodeTimeout},
		{name: "tool not found", err: ErrToolNotFound, wantCode: ErrCodeMethodNotFound},
		{name: "resource not found", err: ErrResourceNotFound, wantCode: ErrCodeMethodNotFound},
		{name: "validation lab error", err: laberrors.ValidationError("bad", nil), wantCode: ErrCodeInvalidParams},
		{name: "io lab error", err: laberrors.IOError("missing", nil), wantCode: ErrCodeDataUnavailable},
		{name: "network lab error", err: laberrors.New(laberrors.ErrCodeNetworkTimeout, "slow", nil), wantCode: ErrCodeTimeout},
		{name: "catalog timeout lab error", err: laberrors.New(laberrors.ErrCodeCatalogTimeout, "waiting", nil), wantCode: ErrCodeCatalogNotReady},
		{name: "unknown", err: errors.New("boom"), wantCode: ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.NotEmpty(t, got.Message)
		})
	}
}

func TestMapError_NilIsNil(t *testing.T) {
	assert.Nil(t, MapError(nil))
}

func TestMapError_PassesMCPErrorThrough(t *testing.T) {
	orig := NewInvalidParamsError("query parameter is required")

	got := MapError(fmt.Errorf("wrapped: %w", orig))

	assert.Same(t, orig, got)
}

func TestMapError_LabErrorIncludesSuggestion(t *testing.T) {
	err := laberrors.IOError("publications file not found", nil).
		WithSuggestion("Run 'labsite config init'.")

	got := MapError(err)

	assert.Equal(t, "publications file not found Run 'labsite config init'.", got.Message)
}

func TestMCPError_Error(t *testing.T) {
	err := NewMethodNotFoundError("frobnicate")

	assert.Equal(t, "MCP error -32601: Tool 'frobnicate' not found.", err.Error())
}
