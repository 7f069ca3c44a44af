// Command scenegen-validate checks layout documents against the statepoint
// schema and reports every violation, for wiring into CI next to the
// simulation jobs that produce the documents.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goliatone/go-scenegen/internal/layout/loader"
	"github.com/goliatone/go-scenegen/internal/layout/parser"
	"github.com/goliatone/go-scenegen/pkg/layout"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [paths...]\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(flag.CommandLine.Output(), "\nValidate device layout documents against the statepoint schema.\n")
	}
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx := context.Background()
	docs := loader.New(layout.NewLoaderOptions())

	failed := false
	for _, path := range paths {
		if err := validateFile(ctx, docs, path); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			failed = true
			continue
		}
		fmt.Printf("%s: ok\n", path)
	}

	if failed {
		os.Exit(1)
	}
}

func validateFile(ctx context.Context, docs layout.Loader, path string) error {
	doc, err := docs.Load(ctx, layout.SourceFromFile(path))
	if err != nil {
		return err
	}
	return parser.Validate(doc)
}
