package cache

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

const filePerm = 0644

// Codec turns values into zstd-framed msgpack files and back
type Codec struct {
	level zstd.EncoderLevel
}

// NewCodec creates a codec compressing at the given level
func NewCodec(level zstd.EncoderLevel) *Codec {
	return &Codec{level: level}
}

// ParseLevel maps a level name (fastest, default, better, best) to a zstd level
func ParseLevel(name string) (zstd.EncoderLevel, error) {
	if name == "" {
		return zstd.SpeedDefault, nil
	}
	ok, level := zstd.EncoderLevelFromString(name)
	if !ok {
		return 0, fmt.Errorf("unknown compression level: %s", name)
	}
	return level, nil
}

// Encode serializes v and compresses it into a single complete frame
func (c *Codec) Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf,
		zstd.WithEncoderLevel(c.level),
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderCRC(true),
	)
	if err != nil {
		return nil, fmt.Errorf("creating compressor: %w", err)
	}

	enc := msgpack.NewEncoder(zw)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(v); err != nil {
		_ = zw.Close()
		return nil, &Error{Kind: KindEncode, Err: err}
	}

	// The buffer is only usable once the frame has been finalized
	if err := zw.Close(); err != nil {
		return nil, &Error{Kind: KindCompress, Err: err}
	}
	return buf.Bytes(), nil
}

// EncodeFile encodes v and stores it at path.
// The bytes land in a temporary sibling first and are renamed over path,
// so a concurrent reader sees either the old file or the new one.
func (c *Codec) EncodeFile(path string, v any) error {
	data, err := c.Encode(v)
	if err != nil {
		if cerr, ok := err.(*Error); ok {
			cerr.Path = path
			return cerr
		}
		return newError(KindCompress, path, err)
	}
	return writeFile(path, data)
}

func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return newError(KindCreate, path, err)
	}
	tmpPath := tmp.Name()

	if err := tmp.Chmod(filePerm); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return newError(KindCreate, path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return newError(KindWrite, path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return newError(KindWrite, path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return newError(KindWrite, path, err)
	}
	return nil
}

// Decode decompresses and deserializes r into v.
// The whole frame is consumed so that a truncated or corrupted tail fails
// even when the value itself decoded.
func (c *Codec) Decode(r io.Reader, v any) error {
	zr, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return &Error{Kind: KindDecode, Err: err}
	}
	defer zr.Close()

	if err := msgpack.NewDecoder(zr).Decode(v); err != nil {
		return &Error{Kind: KindDecode, Err: err}
	}
	if _, err := io.Copy(io.Discard, zr); err != nil {
		return &Error{Kind: KindDecode, Err: err}
	}
	return nil
}

// DecodeFile reads the file at path into v
func (c *Codec) DecodeFile(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return newError(KindOpen, path, err)
	}
	defer func() { _ = f.Close() }()

	if err := c.Decode(bufio.NewReader(f), v); err != nil {
		if cerr, ok := err.(*Error); ok {
			cerr.Path = path
			return cerr
		}
		return newError(KindDecode, path, err)
	}
	return nil
}
