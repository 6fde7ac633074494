package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dkwarude-cell/foodscan/internal/additive"
	"github.com/dkwarude-cell/foodscan/internal/dish"
	"github.com/dkwarude-cell/foodscan/internal/product"
)

// ProductLookupHandler returns the MCP tool handler for the
// "product-lookup" tool: barcode in, enriched product report out.
func ProductLookupHandler(lookup *product.Lookup, analyzer *additive.Analyzer, detector *dish.Detector) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if ctx.Err() != nil {
			return mcp.NewToolResultError(ctx.Err().Error()), nil
		}
		barcode, err := req.RequireString("barcode")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		p, err := lookup.GetProduct(ctx, barcode)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		records := analyzer.AnalyzeText(p.AdditiveTags, p.IngredientsText)
		matches := detector.Detect(p.Name+" "+p.IngredientsText, p.Categories)

		return mcp.NewToolResultText(formatProductReport(p, records, matches)), nil
	}
}
