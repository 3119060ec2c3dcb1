package main

import (
	"os"

	"github.com/spec-dock/spec-dock/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
