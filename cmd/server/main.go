package main

import (
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/dkwarude-cell/foodscan/internal/additive"
	"github.com/dkwarude-cell/foodscan/internal/barcode"
	"github.com/dkwarude-cell/foodscan/internal/cache"
	"github.com/dkwarude-cell/foodscan/internal/dish"
	"github.com/dkwarude-cell/foodscan/internal/logger"
	"github.com/dkwarude-cell/foodscan/internal/product"
	"github.com/dkwarude-cell/foodscan/internal/tools"
	"github.com/dkwarude-cell/foodscan/internal/web"
)

func main() {
	if err := logger.InitFromEnv(); err != nil {
		panic(err)
	}
	defer logger.Close()

	logger.Infof("Starting foodscan server")

	// Connect to the cache daemon; start it if needed, then connect. When no
	// daemon can be reached the tools run with the cache tier bypassed.
	sock := defaultSocketPath()
	logger.Infof("Attempting to connect to cache daemon at %s", sock)
	client, err := connectCache(sock)
	if err != nil {
		logger.Warnf("Failed to connect to cache daemon: %v, attempting to start daemon", err)
		if startErr := startCacheDaemon(); startErr != nil {
			logger.Errorf("Failed to start cache daemon: %v", startErr)
		} else {
			logger.Infof("Cache daemon started successfully")
		}
		// wait for socket to appear
		deadline := time.Now().Add(5 * time.Second)
		for time.Now().Before(deadline) {
			if c2, err2 := connectCache(sock); err2 == nil {
				client = c2
				break
			}
			time.Sleep(200 * time.Millisecond)
		}
	}
	if client == nil {
		logger.Warnf("No cache daemon available, running with cache bypassed")
	} else {
		logger.Infof("Successfully connected to cache daemon")
	}

	// A typed nil must not leak into the KV interfaces.
	var kv cache.KV
	var lookupOpts []product.LookupOption
	if client != nil {
		kv = client
		lookupOpts = append(lookupOpts, product.WithCache(client))
	}
	lookup := product.NewLookup(lookupOpts...)
	analyzer := additive.NewAnalyzer()
	detector := dish.NewDetector()
	decoder := barcode.NewDecoder()
	recipes := web.NewRecipeFetcher(kv, 15*time.Minute)
	logger.Infof("Initialized lookup pipeline (%d additives, %d dish profiles)", analyzer.Len(), detector.Len())

	s := server.NewMCPServer(
		"foodscan",
		"1.0.0",
		server.WithRecovery(),
		server.WithToolCapabilities(false),
	)

	toolLookup := mcp.NewTool("product-lookup",
		mcp.WithDescription(multiline(
			"Resolves a product barcode to a nutrition report",
			"\nFunctionality:",
			"- Resolves through local cache, then the OpenFoodFacts API, then bundled mock data",
			"- Enriches the product with additive concern analysis and dish detection",
			"- Returns nutrition facts with daily-value percentages and a processing level",
			"\nUsage notes:",
			"- The barcode may contain separators; all non-digit characters are stripped",
			"- Results are cached for 7 days by the local cache daemon",
		)),
		mcp.WithString("barcode", mcp.Required(), mcp.Description("Product barcode (EAN/UPC digits)")),
	)
	s.AddTool(toolLookup, tools.ProductLookupHandler(lookup, analyzer, detector))

	toolDish := mcp.NewTool("dish-detect",
		mcp.WithDescription(multiline(
			"Infers likely dishes from a free-text ingredient list",
			"\nFunctionality:",
			"- Scores curated dish profiles against the ingredient text",
			"- Returns ranked matches with confidence above 0.35",
		)),
		mcp.WithString("ingredients", mcp.Required(), mcp.Description("Ingredient list or recipe text")),
		mcp.WithString("categories", mcp.Description("Optional category hints, comma-separated")),
	)
	s.AddTool(toolDish, tools.DishDetectHandler(detector))

	toolAdditives := mcp.NewTool("additives",
		mcp.WithDescription(multiline(
			"Classifies food additives (E-numbers) by health concern",
			"\nFunctionality:",
			"- Accepts explicit E-number codes and/or raw ingredient text to scan",
			"- Unknown codes are reported as low-value rather than rejected",
		)),
		mcp.WithString("codes", mcp.Description("Comma-separated additive codes, e.g. E150d,en:e951")),
		mcp.WithString("text", mcp.Description("Ingredient text to scan for E-numbers")),
	)
	s.AddTool(toolAdditives, tools.AdditivesHandler(analyzer))

	toolScan := mcp.NewTool("scan-image",
		mcp.WithDescription(multiline(
			"Decodes a barcode from an image file and looks up the product",
			"\nFunctionality:",
			"- Reads PNG, JPEG or GIF images from a local path",
			"- Tries EAN/UPC readers first, then QR",
		)),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the image file")),
	)
	s.AddTool(toolScan, tools.ScanImageHandler(decoder, lookup, analyzer, detector))

	toolRecipe := mcp.NewTool("recipe-info",
		mcp.WithDescription(multiline(
			"Fetches and summarizes a recipe page referenced by a dish profile",
			"\nFunctionality:",
			"- Returns the page title, description and readable body text",
			"- Includes a self-cleaning 15-minute cache for repeated fetches",
		)),
		mcp.WithString("url", mcp.Required(), mcp.Description("The recipe URL to fetch")),
	)
	s.AddTool(toolRecipe, tools.RecipeInfoHandler(recipes))

	logger.Infof("Starting MCP server on stdio")
	if err := server.ServeStdio(s); err != nil {
		logger.Errorf("server error: %v", err)
	}
}

// multiline joins lines with newlines for tool descriptions.
func multiline(lines ...string) string { return strings.Join(lines, "\n") }

func defaultSocketPath() string {
	if s := os.Getenv("FOODSCAN_CACHE_SOCK"); s != "" {
		return s
	}
	home, _ := os.UserHomeDir()
	if home == "" {
		home = "."
	}
	return filepath.Join(home, ".cache", "foodscan", "cache.sock")
}

func connectCache(sock string) (*cache.Client, error) {
	// quick probe
	conn, err := net.DialTimeout("unix", sock, 200*time.Millisecond)
	if err != nil {
		return nil, err
	}
	_ = conn.Close()
	return cache.NewClient(sock), nil
}

func startCacheDaemon() error {
	// 1) Try cache binary next to this server executable (works with absolute invocation)
	if exePath, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exePath)
		sibling := filepath.Join(exeDir, "foodscan-cache")
		if _, statErr := os.Stat(sibling); statErr == nil {
			cmd := exec.Command(sibling)
			cmd.Stdout = nil
			cmd.Stderr = nil
			cmd.Env = os.Environ()
			return cmd.Start()
		}
	}

	// 2) Try PATH binary
	if path, err := exec.LookPath("foodscan-cache"); err == nil {
		cmd := exec.Command(path)
		cmd.Stdout = nil
		cmd.Stderr = nil
		cmd.Env = os.Environ()
		return cmd.Start()
	}

	// 3) Try local binary in current working directory (best-effort)
	if _, err := os.Stat("./foodscan-cache"); err == nil {
		cmd := exec.Command("./foodscan-cache")
		cmd.Stdout = nil
		cmd.Stderr = nil
		cmd.Env = os.Environ()
		return cmd.Start()
	}

	return exec.ErrNotFound
}
