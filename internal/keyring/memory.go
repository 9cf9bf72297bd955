package keyring

import (
	"bytes"
	"context"
	"sync"
)

// MemoryKeyring is a process-local Keyring. Operations on different names never
// block each other.
type MemoryKeyring struct {
	entries sync.Map
}

// NewMemoryKeyring creates an empty MemoryKeyring.
func NewMemoryKeyring() *MemoryKeyring {
	return &MemoryKeyring{}
}

// Put stores a copy of value.
func (m *MemoryKeyring) Put(ctx context.Context, name string, value []byte) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.entries.Store(name, bytes.Clone(value))
	return nil
}

// Get returns a copy of the stored value.
func (m *MemoryKeyring) Get(ctx context.Context, name string) ([]byte, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	value, ok := m.entries.Load(name)
	if !ok {
		return nil, ErrNotFound
	}
	return bytes.Clone(value.([]byte)), nil
}

// Delete removes name.
func (m *MemoryKeyring) Delete(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.entries.Delete(name)
	return nil
}
