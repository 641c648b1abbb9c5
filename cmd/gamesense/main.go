// Command gamesense is the operator CLI for the game presence daemon: it
// resolves titles on demand and inspects the local cache.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"gamesense/internal/config"
	"gamesense/internal/logging"
)

var cfg *config.Config

func main() {
	_ = godotenv.Load()

	ctx := context.Background()

	var err error
	cfg, err = config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		cfg = config.DefaultConfig()
	}

	logging.Setup(logging.Config{
		Format: cfg.Logging.Format,
		Level:  cfg.Logging.Level,
	})

	args := parseGlobalFlags(os.Args[1:])

	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "resolve":
		if len(args) < 2 {
			fmt.Println("Usage: gamesense resolve <title>")
			os.Exit(1)
		}
		handleResolveCommand(ctx, args[1:])
	case "cache":
		if len(args) < 2 {
			fmt.Println("Usage: gamesense cache <command>")
			fmt.Println("Commands: list, show, purge")
			os.Exit(1)
		}
		handleCacheCommand(ctx, args[1:])
	case "token":
		handleTokenCommand(args[1:])
	case "config":
		handleConfigCommand(args[1:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("gamesense - game presence resolver")
	fmt.Println()
	fmt.Println("Usage: gamesense [global options] <command> [options]")
	fmt.Println()
	fmt.Println("Global Options:")
	fmt.Println("  --json                       Output in JSON format")
	fmt.Println("  --quiet, -q                  Suppress non-error output")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  resolve <title>              Resolve a title against the catalog")
	fmt.Println("  cache list                   List cached titles")
	fmt.Println("  cache show <title>           Show the cached record for a title")
	fmt.Println("  cache purge [--expired]      Delete cached entries")
	fmt.Println("  token                        Exchange client credentials for a token")
	fmt.Println("  config show                  Show active configuration")
	fmt.Println("  help                         Show this help")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  GAMESENSE_DB                 Cache database path")
	fmt.Println("  IGDB_CLIENT_ID, IGDB_TOKEN   Catalog credentials")
}
