package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/openpermit/openpermit/pkg/domain"
)

// Client defines the interface required by the MCP server to reach a worker.
type Client interface {
	CreateNode(ctx context.Context, opts domain.NodeOptions) (*domain.Node, error)
	ValidateNode(ctx context.Context, in domain.NodeInput) (domain.ValidationResult, error)
	CreateCrosswalk(ctx context.Context, source, target domain.NodeRef) (domain.Crosswalk, error)
}

// Server wraps an OpenPermit client and exposes it as an MCP Server.
type Server struct {
	client    Client
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(client Client, version string) *Server {
	s := &Server{
		client:    client,
		mcpServer: server.NewMCPServer("openpermit-mcp", strings.TrimSpace(version)),
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

type createNodeArgs struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

type validateNodeArgs struct {
	Node map[string]any `json:"node"`
}

type crosswalkArgs struct {
	SourceID   string `json:"source_id"`
	SourceType string `json:"source_type"`
	TargetID   string `json:"target_id"`
	TargetType string `json:"target_type"`
}

func (s *Server) registerTools() {
	// TOOL: create_node
	s.mcpServer.AddTool(mcp.NewTool("create_node",
		mcp.WithDescription("Create a self-defining permitting node and return its canonical JSON-LD document."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Node identifier, e.g. urn:irc:r507")),
		mcp.WithString("type", mcp.Required(), mcp.Description("Node type, e.g. RequirementNode")),
		mcp.WithObject("metadata", mcp.Description("Optional metadata: name, description, version and free-form keys")),
		mcp.WithObject("attributes", mcp.Description("Optional attributes")),
		mcp.WithOutputSchema[domain.Document](),
	), mcp.NewStructuredToolHandler(s.handleCreateNode))

	// TOOL: validate_node
	s.mcpServer.AddTool(mcp.NewTool("validate_node",
		mcp.WithDescription("Check that a node document carries an id and a type."),
		mcp.WithObject("node", mcp.Required(), mcp.Description("Node document in canonical or plain id/type form")),
		mcp.WithOutputSchema[domain.ValidationResult](),
	), mcp.NewStructuredToolHandler(s.handleValidateNode))

	// TOOL: create_crosswalk
	s.mcpServer.AddTool(mcp.NewTool("create_crosswalk",
		mcp.WithDescription("Create a draft crosswalk linking two nodes."),
		mcp.WithString("source_id", mcp.Required(), mcp.Description("Source node ID")),
		mcp.WithString("source_type", mcp.Required(), mcp.Description("Source node type")),
		mcp.WithString("target_id", mcp.Required(), mcp.Description("Target node ID")),
		mcp.WithString("target_type", mcp.Required(), mcp.Description("Target node type")),
		mcp.WithOutputSchema[domain.Crosswalk](),
	), mcp.NewStructuredToolHandler(s.handleCreateCrosswalk))
}

// Handler methods for structured tools

func (s *Server) handleCreateNode(ctx context.Context, request mcp.CallToolRequest, args createNodeArgs) (domain.Document, error) {
	node, err := s.client.CreateNode(ctx, domain.NodeOptions{
		ID:         args.ID,
		Type:       args.Type,
		Metadata:   args.Metadata,
		Attributes: args.Attributes,
	})
	if err != nil {
		return domain.Document{}, fmt.Errorf("create_node failed: %w", err)
	}
	return node.Serialize(), nil
}

func (s *Server) handleValidateNode(ctx context.Context, request mcp.CallToolRequest, args validateNodeArgs) (domain.ValidationResult, error) {
	if args.Node == nil {
		return domain.ValidationResult{}, fmt.Errorf("validate_node failed: %w: node is required", domain.ErrInvalidArgument)
	}
	res, err := s.client.ValidateNode(ctx, domain.NodeJSON(args.Node))
	if err != nil {
		return domain.ValidationResult{}, fmt.Errorf("validate_node failed: %w", err)
	}
	return res, nil
}

func (s *Server) handleCreateCrosswalk(ctx context.Context, request mcp.CallToolRequest, args crosswalkArgs) (domain.Crosswalk, error) {
	cw, err := s.client.CreateCrosswalk(ctx,
		domain.NodeRef{ID: args.SourceID, Type: args.SourceType},
		domain.NodeRef{ID: args.TargetID, Type: args.TargetType},
	)
	if err != nil {
		return domain.Crosswalk{}, fmt.Errorf("create_crosswalk failed: %w", err)
	}
	return cw, nil
}
