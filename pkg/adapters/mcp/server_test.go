package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/openpermit/openpermit"
	"github.com/openpermit/openpermit/pkg/domain"
	"github.com/openpermit/openpermit/pkg/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) (*Server, context.Context) {
	t.Helper()
	client := openpermit.New(openpermit.WithWorkerOptions(worker.WithValidationDelay(0)))
	t.Cleanup(func() { _ = client.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return NewServer(client, "test\n"), ctx
}

func TestHandleCreateNode(t *testing.T) {
	s, ctx := newServer(t)

	doc, err := s.handleCreateNode(ctx, mcp.CallToolRequest{}, createNodeArgs{
		ID:         "urn:irc:r507",
		Type:       domain.NodeTypeRequirement,
		Attributes: map[string]any{"maxSpan": "12ft"},
	})
	require.NoError(t, err)
	assert.Equal(t, "urn:irc:r507", doc.ID)
	assert.Equal(t, "12ft", doc.Attributes["maxSpan"])

	_, err = s.handleCreateNode(ctx, mcp.CallToolRequest{}, createNodeArgs{Type: "Test"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestHandleValidateNode(t *testing.T) {
	s, ctx := newServer(t)

	res, err := s.handleValidateNode(ctx, mcp.CallToolRequest{}, validateNodeArgs{
		Node: map[string]any{"id": "n1"},
	})
	require.NoError(t, err)
	assert.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, domain.CodeMissingType, res.Errors[0].Code)

	_, err = s.handleValidateNode(ctx, mcp.CallToolRequest{}, validateNodeArgs{})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestHandleCreateCrosswalk(t *testing.T) {
	s, ctx := newServer(t)

	cw, err := s.handleCreateCrosswalk(ctx, mcp.CallToolRequest{}, crosswalkArgs{
		SourceID: "s", SourceType: domain.NodeTypeStandard,
		TargetID: "t", TargetType: domain.NodeTypeStandard,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.CrosswalkTypeStandardToStandard, cw.Type)
	assert.Equal(t, "t", cw.Target.Identifier)
}
