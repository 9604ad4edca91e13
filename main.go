package main

import (
	"fmt"
	"os"

	"github.com/mbenoukaiss/shrink/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "shrink: %v\n", err)
		os.Exit(1)
	}
}
