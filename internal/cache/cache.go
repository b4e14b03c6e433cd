// Persists expensive state snapshots on disk so they can be reloaded later
package cache

import (
	"github.com/klauspost/compress/zstd"
	"github.com/sirupsen/logrus"
)

// DefaultExtension is appended to the key to build a cache file name
const DefaultExtension = ".msgpack.zst"

// Cache stores one snapshot of type T per key.
// No method reports failure: every error is logged and degrades to a miss.
type Cache[T any] interface {
	// returns the file backing key, or false when caching is disabled
	Path(key Key) (string, bool)
	// stores value in the background. value must not be mutated afterwards
	Write(key Key, value T)
	// loads the snapshot for key. returns false when missing or unreadable
	Read(key Key) (T, bool)
	// deletes the snapshot for key
	Remove(key Key)
	// blocks until every write started so far has finished
	Wait()
}

type options struct {
	logger    logrus.FieldLogger
	codec     *Codec
	extension string
}

// Option configures a cache
type Option func(*options)

// WithLogger sets where failures and cache activity are reported
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithCodec replaces the default codec
func WithCodec(codec *Codec) Option {
	return func(o *options) {
		o.codec = codec
	}
}

// WithExtension sets the file name suffix, e.g. ".bin"
func WithExtension(ext string) Option {
	return func(o *options) {
		o.extension = ext
	}
}

// New creates a cache rooted at dir. An empty dir disables caching entirely:
// the returned cache never touches the filesystem and always misses.
// dir is expected to exist already.
func New[T any](dir string, opts ...Option) Cache[T] {
	if dir == "" {
		return Disabled[T]{}
	}
	return NewDisk[T](dir, opts...)
}

func buildOptions(opts []Option) options {
	o := options{
		logger:    logrus.StandardLogger().WithField("component", "cache"),
		codec:     NewCodec(zstd.SpeedDefault),
		extension: DefaultExtension,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
