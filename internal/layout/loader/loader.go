package loader

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/goliatone/go-scenegen/pkg/layout"
)

// Loader implements layout.Loader by delegating to file, fs.FS, or HTTP
// strategies depending on the source kind.
type Loader struct {
	fs        fs.FS
	http      *http.Client
	allowHTTP bool
	timeout   time.Duration
}

// Ensure the implementation satisfies the public interface.
var _ layout.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options.
func New(options layout.LoaderOptions) layout.Loader {
	timeout := options.RequestTimeout

	var httpClient *http.Client
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		httpClient = &clone
	case options.AllowHTTPFallback:
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Loader{
		fs:        options.FileSystem,
		http:      httpClient,
		allowHTTP: httpClient != nil,
		timeout:   timeout,
	}
}

// Load fetches a document from the provided source and wraps it in a Document.
func (l *Loader) Load(ctx context.Context, src layout.Source) (layout.Document, error) {
	if src == nil {
		return layout.Document{}, errors.New("layout loader: source is nil")
	}

	var (
		data []byte
		err  error
	)

	switch src.Kind() {
	case layout.SourceKindFile:
		data, err = loadFile(ctx, src.Location())
	case layout.SourceKindFS:
		data, err = loadFromFS(ctx, l.fs, src.Location())
	case layout.SourceKindURL:
		if !l.allowHTTP {
			return layout.Document{}, errors.New("layout loader: http support disabled")
		}
		data, err = loadHTTP(ctx, l.http, src.Location(), l.timeout)
	default:
		err = errors.New("layout loader: unsupported source kind")
	}
	if err != nil {
		return layout.Document{}, err
	}

	return layout.NewDocument(src, data)
}
