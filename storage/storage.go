// Package storage implements the form persistence driver contract over
// pluggable key-value backends and record codecs. The default codec is
// msgpack, which round-trips time values; the JSON codec is provided for
// backends that require readable records and is lossy for dates.
package storage

import (
	"context"
	"fmt"
	"sync"

	gojson "github.com/goccy/go-json"
	"github.com/vmihailenco/msgpack/v5"

	blueprint "github.com/Hank-IT/blueprint-core"
)

// KV is the raw byte store a Driver writes through: the browser-storage
// analog. Get reports ok=false when the key is absent.
type KV interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// Codec serializes persisted form records.
type Codec interface {
	Marshal(rec blueprint.PersistedRecord) ([]byte, error)
	Unmarshal(data []byte) (blueprint.PersistedRecord, error)
}

// Driver couples a KV backend with a codec and satisfies the blueprint
// persistence contract.
type Driver struct {
	kv    KV
	codec Codec
}

var _ blueprint.Driver = (*Driver)(nil)

// NewDriver builds a Driver. A nil codec defaults to msgpack.
func NewDriver(kv KV, codec Codec) *Driver {
	if codec == nil {
		codec = MsgpackCodec{}
	}
	return &Driver{kv: kv, codec: codec}
}

// Load reads and decodes the record stored under key.
func (d *Driver) Load(ctx context.Context, key string) (blueprint.PersistedRecord, bool, error) {
	data, ok, err := d.kv.Get(ctx, key)
	if err != nil || !ok {
		return blueprint.PersistedRecord{}, false, err
	}
	rec, err := d.codec.Unmarshal(data)
	if err != nil {
		return blueprint.PersistedRecord{}, false, fmt.Errorf("storage: decode record %q: %w", key, err)
	}
	return rec, true, nil
}

// Store encodes and writes the record under key.
func (d *Driver) Store(ctx context.Context, key string, rec blueprint.PersistedRecord) error {
	data, err := d.codec.Marshal(rec)
	if err != nil {
		return fmt.Errorf("storage: encode record %q: %w", key, err)
	}
	return d.kv.Set(ctx, key, data)
}

// Forget removes the record stored under key.
func (d *Driver) Forget(ctx context.Context, key string) error {
	return d.kv.Delete(ctx, key)
}

// MsgpackCodec encodes records as msgpack.
type MsgpackCodec struct{}

func (MsgpackCodec) Marshal(rec blueprint.PersistedRecord) ([]byte, error) {
	return msgpack.Marshal(rec)
}

func (MsgpackCodec) Unmarshal(data []byte) (blueprint.PersistedRecord, error) {
	var rec blueprint.PersistedRecord
	err := msgpack.Unmarshal(data, &rec)
	return rec, err
}

// JSONCodec encodes records as JSON. Date values decode back as strings; use
// the msgpack codec when forms hold time values.
type JSONCodec struct{}

func (JSONCodec) Marshal(rec blueprint.PersistedRecord) ([]byte, error) {
	return gojson.Marshal(rec)
}

func (JSONCodec) Unmarshal(data []byte) (blueprint.PersistedRecord, error) {
	var rec blueprint.PersistedRecord
	err := gojson.Unmarshal(data, &rec)
	return rec, err
}

// MemoryKV is an in-memory KV backend, safe for concurrent use.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryKV returns an empty in-memory backend.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: map[string][]byte{}}
}

func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), data...), true, nil
}

func (m *MemoryKV) Set(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), data...)
	return nil
}

func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
