// Package snapshot defines the chain state persisted by the cache
package snapshot

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/iTrooz/snapshot-cache/internal/cache"
)

// Account is the state of a single address
type Account struct {
	Balance uint64            `msgpack:"balance" json:"balance"`
	Nonce   uint64            `msgpack:"nonce,omitempty" json:"nonce,omitempty"`
	Code    []byte            `msgpack:"code,omitempty" json:"code,omitempty"`
	Storage map[string]string `msgpack:"storage,omitempty" json:"storage,omitempty"`
}

// State is a full snapshot of accounts and known block hashes
type State struct {
	Accounts    map[string]Account `msgpack:"accounts" json:"accounts"`
	BlockHashes map[uint64]string  `msgpack:"block_hashes,omitempty" json:"block_hashes,omitempty"`
}

// Key returns the content hash of the state.
// Map keys are encoded in sorted order so equal states always share a key.
func (s *State) Key() (cache.Key, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(s); err != nil {
		return cache.Key{}, fmt.Errorf("encoding state: %w", err)
	}
	return cache.HashKey(buf.Bytes()), nil
}

// NewCache creates a state cache rooted at dir; an empty dir disables it
func NewCache(dir string, opts ...cache.Option) cache.Cache[State] {
	return cache.New[State](dir, opts...)
}
