package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/diagram-rag/internal/rag"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes diagram retrieval tools.
type Server struct {
	svc *rag.Service
	mcp *server.MCPServer
}

// NewServer creates a new MCP server over the given RAG service.
func NewServer(svc *rag.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"diagrag",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(searchDiagramsTool, s.handleSearchDiagrams)
	s.mcp.AddTool(findSimilarTool, s.handleFindSimilar)
	s.mcp.AddTool(getDocumentTool, s.handleGetDocument)
	s.mcp.AddTool(collectionStatsTool, s.handleCollectionStats)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
