package layout

import (
	"context"
	"io/fs"
	"net/http"
	"time"
)

// Loader fetches layout documents from different sources (filesystem, fs.FS,
// HTTP). Implementations live under internal/layout but satisfy this contract.
type Loader interface {
	Load(ctx context.Context, src Source) (Document, error)
}

// Parser normalises layout documents into device models keyed by entry id.
// Documents holding a single bare device are exposed under DefaultEntryID.
type Parser interface {
	Devices(ctx context.Context, doc Document) (map[string]DeviceModel, error)
}

// DefaultEntryID is the key assigned to a document whose top level is a single
// device dictionary rather than a map of named entries.
const DefaultEntryID = "device"

// LoaderOptions configures how a Loader resolves sources.
type LoaderOptions struct {
	// FileSystem enables loading from an abstract filesystem; defaults to the
	// operating system if nil.
	FileSystem fs.FS

	// HTTPClient allows callers to inject custom HTTP behaviour (timeouts,
	// proxies). Nil means HTTP sources are disabled unless AllowHTTPFallback
	// is true.
	HTTPClient *http.Client

	// AllowHTTPFallback toggles the default HTTP loader when no client is
	// supplied. Keeping this explicit preserves offline-first behaviour.
	AllowHTTPFallback bool

	// RequestTimeout caps remote fetch durations.
	RequestTimeout time.Duration
}

// LoaderOption mutates LoaderOptions prior to construction.
type LoaderOption func(*LoaderOptions)

// WithFileSystem injects an fs.FS implementation for relative paths.
func WithFileSystem(files fs.FS) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.FileSystem = files
	}
}

// WithHTTPClient injects a custom HTTP client for remote layout documents.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.HTTPClient = client
	}
}

// WithHTTPFallback enables HTTP loading using a default client and assigns an
// optional timeout.
func WithHTTPFallback(timeout time.Duration) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.AllowHTTPFallback = true
		opts.RequestTimeout = timeout
	}
}

// NewLoaderOptions applies a set of LoaderOption values and returns the
// resulting configuration.
func NewLoaderOptions(options ...LoaderOption) LoaderOptions {
	cfg := LoaderOptions{}
	for _, opt := range options {
		opt(&cfg)
	}
	return cfg
}

// ParserOptions exposes parser toggles.
type ParserOptions struct {
	// SkipValidation bypasses the JSON Schema check before decoding. Parsing
	// still fails with a ParseError when required fields are absent; the
	// schema pass just produces better located diagnostics.
	SkipValidation bool
}

// ParserOption mutates ParserOptions during construction.
type ParserOption func(*ParserOptions)

// WithValidation toggles the schema validation pass.
func WithValidation(enabled bool) ParserOption {
	return func(opts *ParserOptions) {
		opts.SkipValidation = !enabled
	}
}

// NewParserOptions applies a set of ParserOption values and returns the
// resulting configuration.
func NewParserOptions(options ...ParserOption) ParserOptions {
	cfg := ParserOptions{}
	for _, opt := range options {
		opt(&cfg)
	}
	return cfg
}
