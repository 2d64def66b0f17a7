package main

import (
	"os"

	"github.com/docwright/docwright/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
