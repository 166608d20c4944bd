package main

import (
	"os"

	"github.com/Elenmith/TPLProgram/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
