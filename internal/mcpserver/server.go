// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the Arbor tree explorer for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/arbor/internal/models"
	"github.com/starford/arbor/internal/treeservice"
)

// Server wraps the MCP server with Arbor tools.
type Server struct {
	mcp *server.MCPServer
	svc *treeservice.Service
}

// New creates a new MCP server with all Arbor tools registered.
func New(svc *treeservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Arbor",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("get_tree",
		mcp.WithDescription("Return the visible tree as an indented outline. "+
			"Collapsed folders hide their descendants; read the arbor://tree-format "+
			"resource for the exact row format."),
	), s.getTree)

	s.mcp.AddTool(mcp.NewTool("search_tree",
		mcp.WithDescription("Filter the tree and return matching rows with their "+
			"ancestor chains. Terms AND together; '!term' negates, 'ext:go' matches "+
			"the file extension."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Filter query string")),
	), s.searchTree)

	s.mcp.AddTool(mcp.NewTool("read_node",
		mcp.WithDescription("Read one tree node as JSON, including its virtual path, "+
			"source path, origin, and child IDs."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Stable node ID (e.g. from a get_tree row)")),
	), s.readNode)

	s.mcp.AddTool(mcp.NewTool("expand_node",
		mcp.WithDescription("Expand a folder so subsequent get_tree calls include its children."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Folder node ID")),
	), s.expandNode)

	s.mcp.AddTool(mcp.NewTool("collapse_node",
		mcp.WithDescription("Collapse a folder so subsequent get_tree calls hide its children."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Folder node ID")),
	), s.collapseNode)

	s.mcp.AddTool(mcp.NewTool("get_tree_contract",
		mcp.WithDescription("Returns the row format contract for get_tree and search_tree output."),
	), s.getTreeContract)

	// Resource: tree row format contract.
	s.mcp.AddResource(
		mcp.NewResource("arbor://tree-format", "Tree Row Format",
			mcp.WithResourceDescription("Row format of the flattened tree outline."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readTreeFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) getTree(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rows, err := s.svc.Flatten("")
	if err != nil {
		return mcp.NewToolResultError("tree not built yet"), nil
	}
	return mcp.NewToolResultText(renderRows(rows)), nil
}

func (s *Server) searchTree(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rows, flatErr := s.svc.Flatten(query)
	if flatErr != nil {
		return mcp.NewToolResultError("tree not built yet"), nil
	}
	if len(rows) == 0 {
		return mcp.NewToolResultText("no matches"), nil
	}
	return mcp.NewToolResultText(renderRows(rows)), nil
}

func (s *Server) readNode(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	node, nodeErr := s.svc.Node(id)
	if nodeErr != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	out, _ := json.MarshalIndent(node, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) expandNode(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.setExpanded(req, true)
}

func (s *Server) collapseNode(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.setExpanded(req, false)
}

func (s *Server) setExpanded(req mcp.CallToolRequest, expanded bool) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if stateErr := s.svc.SetExpanded(id, expanded); stateErr != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	verb := "expanded"
	if !expanded {
		verb = "collapsed"
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s: %s", verb, id)), nil
}

func (s *Server) getTreeContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(TreeRowContract), nil
}

func (s *Server) readTreeFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "arbor://tree-format",
			MIMEType: "text/markdown",
			Text:     TreeRowContract,
		},
	}, nil
}

// renderRows formats flattened rows per the TreeRowContract.
func renderRows(rows []models.VisibleNode) string {
	var b strings.Builder
	for _, row := range rows {
		b.WriteString(strings.Repeat("  ", row.Depth))
		switch {
		case row.Type == models.NodeFile:
			b.WriteString(". ")
		case row.HasChildren:
			b.WriteString("+ ")
		default:
			b.WriteString("- ")
		}
		b.WriteString(row.Name)
		b.WriteString("    [")
		b.WriteString(row.ID)
		b.WriteString("]\n")
	}
	return b.String()
}
