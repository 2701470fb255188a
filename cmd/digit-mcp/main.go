package main

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/ironsheep/digit-sketch-mcp/internal/classifier"
	"github.com/ironsheep/digit-sketch-mcp/internal/config"
	"github.com/ironsheep/digit-sketch-mcp/internal/imaging"
	"github.com/ironsheep/digit-sketch-mcp/internal/learning"
	"github.com/ironsheep/digit-sketch-mcp/internal/logger"
	"github.com/ironsheep/digit-sketch-mcp/internal/prediction"
	"github.com/ironsheep/digit-sketch-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("digit-sketch-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("digit-sketch-mcp - MCP server that predicts handwritten digits")
			fmt.Println()
			fmt.Println("Usage: digit-sketch-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  DIGIT_MCP_CONFIG=path.yaml           Optional YAML config file")
			fmt.Println("  DIGIT_MCP_LOG_LEVEL=debug            debug, info, warn or error")
			fmt.Println("  DIGIT_MCP_LOG_FORMAT=text            json (default) or text")
			fmt.Println("  DIGIT_MCP_LEARNING_CAPACITY=100      Corrections kept (1-100)")
			fmt.Println("  DIGIT_MCP_RANDOM_SEED=42             Fixed seed; 0 seeds from the clock")
			fmt.Println("  DIGIT_MCP_OCR_LANGUAGE=eng           Tesseract language for the cross-check")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	cfg, err := config.Load()
	if err != nil {
		// The logger is not configured yet; stdout is reserved for MCP.
		fmt.Fprintf(os.Stderr, "digit-sketch-mcp: failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.Setup(cfg.Log)
	log.Info("digit MCP server starting",
		"version", Version,
		"build_time", BuildTime,
		"commit", GitCommit,
		"capacity", cfg.Learning.Capacity,
		"seeded", cfg.Random.Seed != 0)

	seed := cfg.Random.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	// Separate streams for fallback guesses and confidence values.
	classifierRand := rand.New(rand.NewPCG(seed, 1))
	confidenceRand := rand.New(rand.NewPCG(seed, 2))

	svc := prediction.NewService(
		learning.NewStore(cfg.Learning.Capacity),
		classifier.New(classifierRand),
		prediction.WithLogger(log.With("component", "prediction")),
		prediction.WithRandom(confidenceRand),
	)

	srv := server.New(svc,
		server.WithCache(imaging.NewImageCache()),
		server.WithOCRLanguage(cfg.OCR.Language),
		server.WithVersion(Version),
		server.WithLogger(log.With("component", "server")),
	)

	if err := srv.Run(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	slog.Debug("stdin closed, exiting")
}
