package main

import (
	"fmt"
	"os"

	"github.com/cuongbtq/hireboard/internal/cli"
	"github.com/joho/godotenv"
)

func main() {
	// HIREBOARD_* settings may come from a local .env file
	_ = godotenv.Load()

	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
