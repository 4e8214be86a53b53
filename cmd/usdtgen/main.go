// Package main provides the usdtgen binary.
package main

import (
	"errors"
	"fmt"
	"os"

	"usdtgen/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		if !errors.Is(err, cli.ErrReported) {
			_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}

		os.Exit(1)
	}
}
