package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dkwarude-cell/foodscan/internal/additive"
)

// AdditivesHandler returns the MCP tool handler for the "additives" tool:
// E-number codes and/or ingredient text in, concern report out.
func AdditivesHandler(analyzer *additive.Analyzer) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if ctx.Err() != nil {
			return mcp.NewToolResultError(ctx.Err().Error()), nil
		}
		rawCodes := req.GetString("codes", "")
		text := req.GetString("text", "")
		if rawCodes == "" && text == "" {
			return mcp.NewToolResultError("provide either codes or text"), nil
		}

		var codes []string
		for _, code := range strings.Split(rawCodes, ",") {
			if code = strings.TrimSpace(code); code != "" {
				codes = append(codes, code)
			}
		}

		records := analyzer.AnalyzeText(codes, text)
		if len(records) == 0 {
			return mcp.NewToolResultText("No additives detected"), nil
		}
		return mcp.NewToolResultText(formatAdditives(records)), nil
	}
}
