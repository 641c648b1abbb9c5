package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

func handleConfigCommand(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: gamesense config <command>")
		fmt.Println("Commands: show, init")
		os.Exit(1)
	}

	switch args[0] {
	case "show":
		showConfig()
	case "init":
		initConfig()
	default:
		fmt.Printf("Unknown config command: %s\n", args[0])
		os.Exit(1)
	}
}

func showConfig() {
	if outputCfg.JSON {
		PrintResult(cfg)
		return
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		PrintError("Error: failed to marshal config: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("# Active Configuration")
	fmt.Println(string(data))
}

func initConfig() {
	configPath := ".gamesense.yaml"

	if _, err := os.Stat(configPath); err == nil {
		PrintError("Error: %s already exists\n", configPath)
		os.Exit(1)
	}

	example := `# gamesense configuration
db_path: gamesense.db
data_dir: data
listen: ":8093"

igdb:
  client_id: ""
  token: ""
  # client_secret: ""   # alternative to token; exchanged at startup
  timeout_seconds: 10

agent:
  title_file: /run/gamesense/current_game
  interval_seconds: 5

redis:
  enabled: false
  addr: localhost:6379
  prefix: gamesense

logging:
  format: text
  level: info
`

	if err := os.WriteFile(configPath, []byte(example), 0644); err != nil {
		PrintError("Error: failed to write config: %v\n", err)
		os.Exit(1)
	}
	PrintInfo("Wrote %s\n", configPath)
}
