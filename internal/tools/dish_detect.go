package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dkwarude-cell/foodscan/internal/dish"
)

// DishDetectHandler returns the MCP tool handler for the "dish-detect"
// tool: free-text ingredients in, ranked dish matches out.
func DishDetectHandler(detector *dish.Detector) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if ctx.Err() != nil {
			return mcp.NewToolResultError(ctx.Err().Error()), nil
		}
		ingredients, err := req.RequireString("ingredients")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		categories := req.GetString("categories", "")

		matches := detector.Detect(ingredients, categories)
		if len(matches) == 0 {
			return mcp.NewToolResultText("No confident dish match"), nil
		}
		return mcp.NewToolResultText(formatDishMatches(matches)), nil
	}
}
