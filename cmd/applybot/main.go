package main

import (
	"os"

	"go-openclaw-mailer/cmd/applybot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
