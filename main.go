package main

import (
	"os"

	"github.com/abhisek/grammarquiz/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
