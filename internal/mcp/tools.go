package mcp

import "github.com/mark3labs/mcp-go/mcp"

// searchDiagramsTool defines the search_diagrams MCP tool.
var searchDiagramsTool = mcp.NewTool("search_diagrams",
	mcp.WithDescription("Search indexed diagram descriptions semantically. Returns the most relevant diagrams with scores and content."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language search query"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default 5, max 20)"),
	),
	mcp.WithString("diagram_type",
		mcp.Description("Restrict results to one diagram type"),
		mcp.Enum("class", "sequence", "component", "state", "usecase"),
	),
	mcp.WithNumber("threshold",
		mcp.Description("Minimum similarity score between 0 and 1 (default 0.7)"),
	),
)

// findSimilarTool defines the find_similar MCP tool.
var findSimilarTool = mcp.NewTool("find_similar",
	mcp.WithDescription("Find diagrams similar to the given diagram content."),
	mcp.WithString("content",
		mcp.Required(),
		mcp.Description("Diagram source text to compare against the index"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default 5, max 10)"),
	),
	mcp.WithString("exclude_id",
		mcp.Description("Document id to omit from results, typically the diagram itself"),
	),
)

// getDocumentTool defines the get_document MCP tool.
var getDocumentTool = mcp.NewTool("get_document",
	mcp.WithDescription("Fetch one indexed diagram document by id, including its content and metadata."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Document id"),
	),
)

// collectionStatsTool defines the collection_stats MCP tool.
var collectionStatsTool = mcp.NewTool("collection_stats",
	mcp.WithDescription("Get index statistics: total documents and counts per diagram type."),
)
