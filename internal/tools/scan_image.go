package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dkwarude-cell/foodscan/internal/additive"
	"github.com/dkwarude-cell/foodscan/internal/barcode"
	"github.com/dkwarude-cell/foodscan/internal/dish"
	"github.com/dkwarude-cell/foodscan/internal/product"
)

// ScanImageHandler returns the MCP tool handler for the "scan-image" tool:
// image file path in, decoded barcode plus product report out.
func ScanImageHandler(decoder *barcode.Decoder, lookup *product.Lookup, analyzer *additive.Analyzer, detector *dish.Detector) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if ctx.Err() != nil {
			return mcp.NewToolResultError(ctx.Err().Error()), nil
		}
		path, err := req.RequireString("path")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		results, err := decoder.DecodeFile(path)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var sb strings.Builder
		first := results[0]
		fmt.Fprintf(&sb, "Decoded %s barcode: %s", first.Format, first.Data)
		if !first.ChecksumOK {
			sb.WriteString(" (checksum mismatch)")
		}
		sb.WriteString("\n\n")

		p, err := lookup.GetProduct(ctx, first.Data)
		if err != nil {
			fmt.Fprintf(&sb, "Lookup failed: %v", err)
			return mcp.NewToolResultText(sb.String()), nil
		}
		records := analyzer.AnalyzeText(p.AdditiveTags, p.IngredientsText)
		matches := detector.Detect(p.Name+" "+p.IngredientsText, p.Categories)
		sb.WriteString(formatProductReport(p, records, matches))
		return mcp.NewToolResultText(sb.String()), nil
	}
}
