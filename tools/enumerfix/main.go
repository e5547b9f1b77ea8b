// Package main rewrites enumer output so generated parsers return
// cockroachdb/errors values instead of fmt.Errorf ones.
package main

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"os"

	"github.com/cockroachdb/errors"
	"golang.org/x/tools/go/ast/astutil"
)

const (
	minArgs         = 2
	errorsPath      = "github.com/cockroachdb/errors"
	filePermissions = 0o644
)

// ErrUsage indicates incorrect usage of the tool.
var ErrUsage = errors.New("usage: enumerfix <file>...")

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) < minArgs {
		return ErrUsage
	}

	for _, filename := range args[1:] {
		if err := fixFile(filename); err != nil {
			return errors.Wrapf(err, "fixing %s", filename)
		}
	}

	return nil
}

func fixFile(filename string) error {
	//nolint:gosec // G304: file path comes from go:generate
	src, err := os.ReadFile(filename)
	if err != nil {
		return errors.Wrap(err, "reading file")
	}

	fixed, err := fixSource(filename, src)
	if err != nil {
		return err
	}

	if bytes.Equal(src, fixed) {
		return nil
	}

	if err := os.WriteFile(filename, fixed, filePermissions); err != nil {
		return errors.Wrap(err, "writing file")
	}

	return nil
}

// fixSource replaces fmt.Errorf calls with errors.Newf and settles the
// import block. Files without fmt.Errorf come back unchanged.
func fixSource(filename string, src []byte) ([]byte, error) {
	fset := token.NewFileSet()

	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, errors.Wrap(err, "parsing file")
	}

	replaced := 0

	ast.Inspect(file, func(n ast.Node) bool {
		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return true
		}

		pkg, ok := sel.X.(*ast.Ident)
		if !ok || pkg.Name != "fmt" || sel.Sel.Name != "Errorf" {
			return true
		}

		pkg.Name = "errors"
		sel.Sel.Name = "Newf"
		replaced++

		return false
	})

	if replaced == 0 {
		return src, nil
	}

	astutil.AddImport(fset, file, errorsPath)

	if !astutil.UsesImport(file, "fmt") {
		astutil.DeleteImport(fset, file, "fmt")
	}

	var buf bytes.Buffer
	if err := format.Node(&buf, fset, file); err != nil {
		return nil, errors.Wrap(err, "formatting file")
	}

	return buf.Bytes(), nil
}
