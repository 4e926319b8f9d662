// Command lenient queries the resolution result recorded in a snapshot
// document.
//
// Usage:
//
//	lenient artifacts --snapshot result.json --store ~/.cache/artifacts
//	lenient files --snapshot result.yaml --include org.example:*
//	lenient deps --snapshot result.star --all
//	lenient graph --snapshot result.json --format dot
//	lenient check --snapshot result.json
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	cmd := newRootCmd(os.Stdout, os.Stderr)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
