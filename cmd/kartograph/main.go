// Command kartograph runs a headless navigation session over a loaded
// semantic graph: it drives the frame pipeline at a fixed rate and exposes
// the renderer boundary over HTTP (and optionally MCP on stdio).
package main

import (
	"context"
	"flag"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sanonone/kartograph/internal/mcp"
	"github.com/sanonone/kartograph/internal/server"
	"github.com/sanonone/kartograph/pkg/core"
	"github.com/sanonone/kartograph/pkg/core/view"
	"github.com/sanonone/kartograph/pkg/nav"
)

func main() {
	graphPath := flag.String("graph", "graph.yaml", "Path to the yaml graph file (keywords, contents, edges)")
	configPath := flag.String("config", "", "Optional yaml options file overlaid onto defaults")
	httpAddr := flag.String("http-addr", ":9091", "Address for the HTTP state/debug server")
	authToken := flag.String("auth-token", "", "Optional bearer token for the HTTP API")
	frameRate := flag.Int("frame-rate", 60, "Frames per second for the headless pipeline")
	width := flag.Float64("width", 1920, "Viewport pixel width")
	height := flag.Float64("height", 1080, "Viewport pixel height")
	distance := flag.Float64("camera-distance", 1500, "Initial camera distance")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	mcpStdio := flag.Bool("mcp", false, "Serve MCP navigation tools on stdio")
	flag.Parse()

	setupLogging(*logLevel)

	graph, err := nav.LoadGraph(*graphPath)
	if err != nil {
		slog.Error("failed to load graph", "error", err)
		os.Exit(1)
	}
	if len(graph.Edges()) == 0 {
		// No explicit edges shipped with the graph: derive them from the
		// embeddings, with the kNN fill keeping everything connected.
		if err := graph.DeriveSimilarityEdges(core.DefaultSimilarityParams()); err != nil {
			slog.Error("failed to derive similarity edges", "error", err)
			os.Exit(1)
		}
		slog.Info("derived similarity edges", "edges", len(graph.Edges()))
	}

	opts := nav.DefaultOptions()
	if *configPath != "" {
		opts, err = nav.LoadOptions(*configPath)
		if err != nil {
			slog.Error("failed to load options", "error", err)
			os.Exit(1)
		}
	}

	eng, err := nav.Open(graph, opts)
	if err != nil {
		slog.Error("failed to open navigation engine", "error", err)
		os.Exit(1)
	}
	defer eng.Close()

	srv := server.New(eng, *httpAddr, *authToken)
	go func() {
		if err := srv.Run(); err != nil {
			slog.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *mcpStdio {
		mcpSrv := mcp.NewMCPServer(eng, srv.Latest)
		go func() {
			if err := mcpSrv.Run(ctx, &sdkmcp.StdioTransport{}); err != nil {
				slog.Error("MCP server stopped", "error", err)
			}
		}()
	}

	// Frame loop. Camera and cursor default here; interactions queued over
	// HTTP/MCP override them inside the engine.
	go func() {
		in := nav.FrameInput{
			Camera: view.Camera{Distance: *distance, FOV: math.Pi / 3},
			Width:  *width,
			Height: *height,
		}
		ticker := time.NewTicker(time.Second / time.Duration(*frameRate))
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				out := eng.Frame(in)
				srv.Publish(out.Clone())
			}
		}
	}()

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownChan

	cancel()
	srv.Shutdown()
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}
