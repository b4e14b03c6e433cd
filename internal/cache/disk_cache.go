package cache

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

// DiskCache implements Cache with one file per key directly under a root directory
type DiskCache[T any] struct {
	root      string
	extension string
	codec     *Codec
	log       logrus.FieldLogger

	// inflight is swapped for a fresh group on every Wait so that Add
	// never runs concurrently with Wait on the same group
	mu       sync.Mutex
	inflight *sync.WaitGroup
}

// NewDisk creates a disk cache rooted at dir
func NewDisk[T any](dir string, opts ...Option) *DiskCache[T] {
	o := buildOptions(opts)
	return &DiskCache[T]{
		root:      dir,
		extension: o.extension,
		codec:     o.codec,
		log:       o.logger,
		inflight:  &sync.WaitGroup{},
	}
}

// Path returns root/<key><extension>
func (d *DiskCache[T]) Path(key Key) (string, bool) {
	return filepath.Join(d.root, key.String()+d.extension), true
}

// Write encodes and stores value on a new goroutine and returns immediately
func (d *DiskCache[T]) Write(key Key, value T) {
	path, _ := d.Path(key)

	d.mu.Lock()
	wg := d.inflight
	wg.Add(1)
	d.mu.Unlock()

	go func() {
		defer wg.Done()
		if err := d.codec.EncodeFile(path, &value); err != nil {
			d.fields(key, path, err).Error("Failed to write state snapshot")
			return
		}
		d.log.WithFields(logrus.Fields{"key": key.String(), "path": path}).Trace("Wrote state snapshot")
	}()
}

// Read loads the snapshot stored for key
func (d *DiskCache[T]) Read(key Key) (T, bool) {
	path, _ := d.Path(key)

	var value T
	if err := d.codec.DecodeFile(path, &value); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			d.log.WithFields(logrus.Fields{"key": key.String(), "path": path}).Debug("No cached state snapshot")
		} else {
			d.fields(key, path, err).Error("Failed to load state snapshot")
		}
		var zero T
		return zero, false
	}

	d.log.WithFields(logrus.Fields{"key": key.String(), "path": path}).Trace("Loaded cached state snapshot")
	return value, true
}

// Remove deletes the file stored for key
func (d *DiskCache[T]) Remove(key Key) {
	path, _ := d.Path(key)
	if err := os.Remove(path); err != nil {
		d.fields(key, path, newError(KindRemove, path, err)).Error("Failed to remove state snapshot")
		return
	}
	d.log.WithFields(logrus.Fields{"key": key.String(), "path": path}).Trace("Removed state snapshot")
}

// Wait blocks until all writes dispatched so far have settled
func (d *DiskCache[T]) Wait() {
	d.mu.Lock()
	wg := d.inflight
	next := &sync.WaitGroup{}
	// A later Wait on next must also cover the writes still pending in wg
	next.Add(1)
	d.inflight = next
	d.mu.Unlock()

	wg.Wait()
	next.Done()
}

func (d *DiskCache[T]) fields(key Key, path string, err error) logrus.FieldLogger {
	f := logrus.Fields{"key": key.String(), "path": path}
	var cerr *Error
	if errors.As(err, &cerr) {
		f["kind"] = cerr.Kind.String()
	}
	return d.log.WithFields(f).WithError(err)
}
