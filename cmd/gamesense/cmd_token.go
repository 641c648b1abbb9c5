package main

import (
	"fmt"
	"os"

	"gamesense/internal/igdb"
)

func handleTokenCommand(_ []string) {
	clientID := cfg.IGDB.ClientID
	secret := cfg.IGDB.ClientSecret
	if clientID == "" || secret == "" {
		PrintError("Error: IGDB_CLIENT_ID and IGDB_CLIENT_SECRET are required\n")
		os.Exit(1)
	}

	token, err := igdb.FetchToken(clientID, secret)
	if err != nil {
		PrintError("Error: token exchange failed: %v\n", err)
		os.Exit(1)
	}

	if outputCfg.JSON {
		PrintResult(map[string]interface{}{"access_token": token})
		return
	}
	fmt.Println(token)
}
