package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/diagram-rag/internal/diagrams"
	"github.com/ziadkadry99/diagram-rag/internal/rag"
	"github.com/ziadkadry99/diagram-rag/internal/vectordb"
)

// handleSearchDiagrams performs semantic search over the diagram index.
func (s *Server) handleSearchDiagrams(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	opts := rag.SearchOptions{
		Limit:       request.GetInt("limit", 0),
		DiagramType: diagrams.Type(request.GetString("diagram_type", "")),
	}
	if th := request.GetFloat("threshold", -1); th >= 0 {
		f := float32(th)
		opts.Threshold = &f
	}

	resp, err := s.svc.Search(ctx, query, opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	if resp.TotalResults == 0 {
		return mcp.NewToolResultText("No results found. The diagram index may be empty; run `diagrag ingest` to populate it."), nil
	}

	return mcp.NewToolResultText(formatResults(resp.Documents)), nil
}

// handleFindSimilar returns diagrams close to the given content.
func (s *Server) handleFindSimilar(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := request.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: content"), nil
	}

	limit := request.GetInt("limit", 0)
	excludeID := request.GetString("exclude_id", "")

	results, err := s.svc.FindSimilar(ctx, content, limit, excludeID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("similarity search failed: %v", err)), nil
	}

	if len(results) == 0 {
		return mcp.NewToolResultText("No similar diagrams found."), nil
	}

	return mcp.NewToolResultText(formatResults(results)), nil
}

// handleGetDocument fetches one document by id.
func (s *Server) handleGetDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: id"), nil
	}

	doc, err := s.svc.Get(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("lookup failed: %v", err)), nil
	}
	if doc == nil {
		return mcp.NewToolResultError(fmt.Sprintf("no document with id %q", id)), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("ID: %s\nType: %s\n", doc.ID, doc.DiagramType))
	if doc.Source != "" {
		sb.WriteString(fmt.Sprintf("Source: %s\n", doc.Source))
	}
	if len(doc.Keywords) > 0 {
		sb.WriteString(fmt.Sprintf("Keywords: %s\n", strings.Join(doc.Keywords, ", ")))
	}
	sb.WriteString("\n")
	sb.WriteString(doc.Content)

	return mcp.NewToolResultText(sb.String()), nil
}

// handleCollectionStats reports index statistics.
func (s *Server) handleCollectionStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.svc.Stats(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("stats failed: %v", err)), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total documents: %d\n", stats.TotalDocuments))
	for _, typ := range diagrams.KnownTypes {
		sb.WriteString(fmt.Sprintf("  %s: %d\n", typ, stats.ByDiagramType[typ]))
	}
	if stats.Collection != nil {
		sb.WriteString(fmt.Sprintf("Collection: %s (status %s, vector size %d)\n",
			stats.Collection.Name, stats.Collection.Status, stats.Collection.VectorSize))
	}

	return mcp.NewToolResultText(sb.String()), nil
}

// formatResults converts search results into a rich text format optimized
// for AI agent consumption.
func formatResults(results []vectordb.SearchResult) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d result(s):\n", len(results)))

	for i, r := range results {
		sb.WriteString(fmt.Sprintf("\n--- Result %d ---\n", i+1))
		sb.WriteString(fmt.Sprintf("ID: %s\n", r.ID))
		sb.WriteString(fmt.Sprintf("Type: %s\n", r.Document.DiagramType))
		if r.Document.Source != "" {
			sb.WriteString(fmt.Sprintf("Source: %s\n", r.Document.Source))
		}
		sb.WriteString(fmt.Sprintf("Similarity: %.1f%%\n", r.Score*100))
		sb.WriteString("\n")
		sb.WriteString(r.Document.Content)
		sb.WriteString("\n")
	}

	return sb.String()
}
