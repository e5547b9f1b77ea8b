// Command schema-gen writes the frametrace config JSON Schema.
//
// Usage:
//
//	schema-gen [dir|-]
//
// The schema is written to dir/config.v<N>.json (default dir: schema), or to
// stdout when the argument is "-".
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/smykla-skalski/frametrace/internal/schema"
)

const filePerms = 0o644

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	data, err := schema.GenerateJSON(true)
	if err != nil {
		return err
	}

	outDir := "schema"
	if len(args) > 0 {
		outDir = args[0]
	}

	if outDir == "-" {
		_, err := os.Stdout.Write(data)

		return err
	}

	outPath := filepath.Clean(filepath.Join(outDir, schema.Filename()))

	//nolint:gosec // dev tool, outDir from CLI arg
	if err := os.WriteFile(outPath, data, filePerms); err != nil {
		return err
	}

	fmt.Println(outPath)

	return nil
}
