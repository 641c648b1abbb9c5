package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"gamesense/internal/cache"
)

func handleCacheCommand(ctx context.Context, args []string) {
	switch args[0] {
	case "list":
		cacheList(ctx)
	case "show":
		if len(args) < 2 {
			fmt.Println("Usage: gamesense cache show <title>")
			os.Exit(1)
		}
		cacheShow(ctx, strings.Join(args[1:], " "))
	case "purge":
		expiredOnly := len(args) > 1 && args[1] == "--expired"
		cachePurge(ctx, expiredOnly)
	default:
		fmt.Printf("Unknown cache command: %s\n", args[0])
		os.Exit(1)
	}
}

func openCache(ctx context.Context) *cache.Store {
	store, err := cache.Open(ctx, cfg.GetDBPath())
	if err != nil {
		PrintError("Error: failed to open cache: %v\n", err)
		os.Exit(1)
	}
	return store
}

func cacheList(ctx context.Context) {
	store := openCache(ctx)
	defer func() { _ = store.Close() }()

	entries, err := store.Entries(ctx)
	if err != nil {
		PrintError("Error: %v\n", err)
		os.Exit(1)
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		state := "fresh"
		if e.Expired {
			state = "expired"
		}
		rows = append(rows, []string{
			e.Key,
			e.Name,
			e.LastUpdated.Format(time.DateOnly),
			state,
		})
	}
	PrintTable([]string{"Key", "Resolved Name", "Updated", "State"}, rows)
}

func cacheShow(ctx context.Context, title string) {
	store := openCache(ctx)
	defer func() { _ = store.Close() }()

	rec, err := store.Get(ctx, title)
	if err != nil {
		PrintError("Error: %v\n", err)
		os.Exit(1)
	}
	if rec == nil {
		PrintError("No fresh cache entry for %q\n", title)
		os.Exit(1)
	}

	if outputCfg.JSON {
		PrintResult(rec)
		return
	}
	printRecord(rec)
}

func cachePurge(ctx context.Context, expiredOnly bool) {
	store := openCache(ctx)
	defer func() { _ = store.Close() }()

	n, err := store.Purge(ctx, expiredOnly)
	if err != nil {
		PrintError("Error: %v\n", err)
		os.Exit(1)
	}
	PrintInfo("Removed %d entries\n", n)
}
