package flowmap

import (
	"fmt"
	"sync"

	"github.com/notargets/golcs/grid"
)

// MemStore holds encoded flow maps in memory, with the same blob layout as FileStore
type MemStore struct {
	mu    sync.RWMutex
	blobs map[Key][]byte
}

func NewMemStore() *MemStore {
	return &MemStore{blobs: make(map[Key][]byte)}
}

func (ms *MemStore) Write(key Key, p *grid.Position) error {
	buf := Encode(p)
	ms.mu.Lock()
	ms.blobs[key] = buf
	ms.mu.Unlock()
	return nil
}

func (ms *MemStore) Read(key Key, p *grid.Position) (err error) {
	ms.mu.RLock()
	buf, ok := ms.blobs[key]
	ms.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrCacheMiss, key)
	}
	if err = Decode(buf, p); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	p.Time = key.Time()
	return
}

func (ms *MemStore) Has(key Key) bool {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	_, ok := ms.blobs[key]
	return ok
}

func (ms *MemStore) Size(key Key) (int, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	buf, ok := ms.blobs[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrCacheMiss, key)
	}
	return len(buf), nil
}

func (ms *MemStore) Delete(key Key) error {
	ms.mu.Lock()
	delete(ms.blobs, key)
	ms.mu.Unlock()
	return nil
}

func (ms *MemStore) Len() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return len(ms.blobs)
}

func (ms *MemStore) Close() error { return nil }
