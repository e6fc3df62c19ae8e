package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"fixflow-agent/packages/cli"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found")
	}

	// Load private key for the GitHub App surface
	loadPrivateKey()

	if err := cli.Execute(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func loadPrivateKey() {
	keyPath := os.Getenv("GITHUB_APP_PRIVATE_KEY_PATH")
	if keyPath != "" {
		keyData, err := os.ReadFile(keyPath)
		if err != nil {
			slog.Error("Failed to read private key", "error", err)
		} else {
			os.Setenv("GITHUB_APP_PRIVATE_KEY", string(keyData))
			slog.Info("Private key loaded from", "keyPath", keyPath)
		}
	}
}
