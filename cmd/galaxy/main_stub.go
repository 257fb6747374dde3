//go:build !ebiten

package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Fprintln(os.Stderr, "The window build of spiral-galaxy requires the ebiten build tag.")
	fmt.Fprintln(os.Stderr, "Re-run with `go run -tags ebiten ./cmd/galaxy`, or use ./cmd/galaxy-term in a terminal.")
	os.Exit(2)
}
