package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gamesense/internal/assets"
	"gamesense/internal/cache"
	"gamesense/internal/igdb"
	"gamesense/internal/resolver"
)

func handleResolveCommand(ctx context.Context, args []string) {
	title := strings.Join(args, " ")

	clientID := cfg.IGDB.ClientID
	token := cfg.IGDB.Token
	if token == "" && cfg.IGDB.ClientSecret != "" {
		var err error
		token, err = igdb.FetchToken(clientID, cfg.IGDB.ClientSecret)
		if err != nil {
			PrintError("Error: failed to obtain token: %v\n", err)
			os.Exit(1)
		}
	}

	client, err := igdb.NewClient(clientID, token, cfg.IGDBTimeout())
	if err != nil {
		PrintError("Error: %v\n", err)
		PrintError("Set IGDB_CLIENT_ID and IGDB_TOKEN (or igdb.client_secret in config).\n")
		os.Exit(1)
	}

	store, err := cache.Open(ctx, cfg.GetDBPath())
	if err != nil {
		PrintError("Error: failed to open cache: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	fetcher := assets.NewFetcher(cfg.GetDataDir(), cfg.IGDBTimeout())
	res := resolver.New(client, store, fetcher)

	PrintInfo("Resolving %q...\n", title)
	start := time.Now()
	rec, err := res.Resolve(ctx, title)
	if errors.Is(err, resolver.ErrNoMatch) {
		PrintError("No matching game found for %q\n", title)
		os.Exit(1)
	}
	if err != nil {
		PrintError("Error: resolution failed: %v\n", err)
		os.Exit(1)
	}

	if outputCfg.JSON {
		PrintResult(rec)
		return
	}

	printRecord(rec)
	PrintInfo("\nResolved in %s\n", time.Since(start).Round(time.Millisecond))
}

func printRecord(rec *resolver.Record) {
	fmt.Printf("Name:       %s\n", rec.Name)
	if rec.ReleaseDate != "" {
		fmt.Printf("Released:   %s\n", rec.ReleaseDate)
	}
	if rec.Rating > 0 {
		fmt.Printf("Rating:     %.1f/100\n", rec.Rating)
	}
	if len(rec.Genres) > 0 {
		fmt.Printf("Genres:     %s\n", rec.GenresDisplay())
	}
	if len(rec.Platforms) > 0 {
		fmt.Printf("Platforms:  %s\n", rec.PlatformsDisplay())
	}
	if len(rec.Developers) > 0 {
		fmt.Printf("Developers: %s\n", rec.DevelopersDisplay())
	}
	if rec.URL != "" {
		fmt.Printf("URL:        %s\n", rec.URL)
	}
	if rec.CoverPath != "" {
		fmt.Printf("Cover:      %s\n", rec.CoverPath)
	}
	if rec.ArtworkPath != "" {
		fmt.Printf("Artwork:    %s\n", rec.ArtworkPath)
	}
	if rec.Summary != "" {
		fmt.Printf("\n%s\n", rec.Summary)
	}
}
