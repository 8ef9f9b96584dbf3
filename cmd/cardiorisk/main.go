package main

import (
	"fmt"
	"os"

	"github.com/harrison/cardiorisk/internal/cmd"
	"github.com/joho/godotenv"
)

// Version is the current version of the cardiorisk application
const Version = "0.1.0"

func main() {
	// A .env file in the working directory may set CARDIORISK_* variables.
	_ = godotenv.Load()

	if cmd.Version == "dev" {
		cmd.Version = Version
	}
	rootCmd := cmd.NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
