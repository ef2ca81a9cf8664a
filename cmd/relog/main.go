package main

import (
	"os"

	"github.com/ariel-frischer/relog/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
