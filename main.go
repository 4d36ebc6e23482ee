package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/spigell/ats-scorer/cmd"
)

func main() {
	// GEMINI_API_KEY may live in a local .env file.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
