package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dkwarude-cell/foodscan/internal/web"
)

// RecipeInfoHandler returns the MCP tool handler for the "recipe-info"
// tool: recipe URL in, page summary out.
func RecipeInfoHandler(fetcher *web.RecipeFetcher) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if ctx.Err() != nil {
			return mcp.NewToolResultError(ctx.Err().Error()), nil
		}
		url, err := req.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		rs, err := fetcher.Fetch(ctx, url)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var sb strings.Builder
		if rs.Title != "" {
			sb.WriteString("# ")
			sb.WriteString(rs.Title)
			sb.WriteString("\n\n")
		}
		if rs.Description != "" {
			sb.WriteString(rs.Description)
			sb.WriteString("\n\n")
		}
		sb.WriteString(rs.Text)
		return mcp.NewToolResultText(sb.String()), nil
	}
}
