package hive

import (
	"io"
	"log/slog"

	"github.com/joshuapare/nthive/internal/format"
)

// DefaultPathCacheSize bounds the number of resolved paths remembered per hive.
const DefaultPathCacheSize = 1024

// Options tune how a hive is read. The zero value is ready to use.
type Options struct {
	// CaseInsensitive makes Subkey, Subpath and Find compare names with
	// Unicode case folding. The default is exact comparison.
	CaseInsensitive bool

	// MaxCellSize rejects any cell whose declared size exceeds it.
	// Zero means format.DefaultMaxCellSize.
	MaxCellSize int

	// PathCacheSize is the LRU capacity for resolved paths. Zero means
	// DefaultPathCacheSize; a negative value disables the cache.
	PathCacheSize int

	// StreamFile makes Open read cells through file seeks instead of
	// mapping the file.
	StreamFile bool

	// Logger receives debug events at load boundaries. Nil discards.
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.MaxCellSize <= 0 {
		o.MaxCellSize = format.DefaultMaxCellSize
	}
	if o.PathCacheSize == 0 {
		o.PathCacheSize = DefaultPathCacheSize
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}
