package main

import (
	"os"

	"github.com/boada/mc-elo/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
