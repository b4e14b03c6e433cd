package cache

import "fmt"

// ErrorKind identifies the step of the cache pipeline that failed
type ErrorKind int

const (
	// KindCreate is a failure creating the cache file
	KindCreate ErrorKind = iota + 1
	// KindOpen is a failure opening the cache file for reading
	KindOpen
	// KindWrite is a failure writing the encoded bytes to disk
	KindWrite
	// KindCompress is a failure finalizing the compressed frame
	KindCompress
	// KindEncode is a failure serializing the value
	KindEncode
	// KindDecode is a failure decompressing or deserializing the file
	KindDecode
	// KindRemove is a failure deleting the cache file
	KindRemove
)

func (k ErrorKind) String() string {
	switch k {
	case KindCreate:
		return "create"
	case KindOpen:
		return "open"
	case KindWrite:
		return "write"
	case KindCompress:
		return "compress"
	case KindEncode:
		return "encode"
	case KindDecode:
		return "decode"
	case KindRemove:
		return "remove"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Error carries the failing step and the file involved.
// It only ever reaches log records, never the callers of Cache.
type Error struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindCreate:
		return fmt.Sprintf("failed to create file %s: %v", e.Path, e.Err)
	case KindOpen:
		return fmt.Sprintf("failed to open file %s: %v", e.Path, e.Err)
	case KindWrite, KindCompress:
		return fmt.Sprintf("failed to write to %s: %v", e.Path, e.Err)
	case KindEncode:
		return fmt.Sprintf("failed to encode snapshot for %s: %v", e.Path, e.Err)
	case KindDecode:
		return fmt.Sprintf("failed to decode snapshot from %s: %v", e.Path, e.Err)
	case KindRemove:
		return fmt.Sprintf("failed to remove file %s: %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("cache error on %s: %v", e.Path, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}
