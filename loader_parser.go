package scenegen

import (
	internalLoader "github.com/goliatone/go-scenegen/internal/layout/loader"
	internalParser "github.com/goliatone/go-scenegen/internal/layout/parser"
	"github.com/goliatone/go-scenegen/pkg/layout"
)

// NewLoader constructs a loader using the internal implementation while
// keeping the concrete type hidden from consumers.
func NewLoader(options ...layout.LoaderOption) layout.Loader {
	cfg := layout.NewLoaderOptions(options...)
	return internalLoader.New(cfg)
}

// NewParser constructs a parser backed by the internal implementation.
func NewParser(options ...layout.ParserOption) layout.Parser {
	cfg := layout.NewParserOptions(options...)
	return internalParser.New(cfg)
}
