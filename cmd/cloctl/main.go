package main

import (
	"os"

	"github.com/adamchaz/clo-compliance/cmd/cloctl/commands"
)

// main is the entry point for the compliance CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/cloctl [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
