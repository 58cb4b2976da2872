package storage

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"
)

// MemoryDisk keeps objects in a map. FailPut, when set, makes every
// PutStream return it.
type MemoryDisk struct {
	mu      sync.Mutex
	objects map[string][]byte
	BaseURL string
	FailPut error
}

func NewMemoryDisk() *MemoryDisk {
	return &MemoryDisk{objects: map[string][]byte{}, BaseURL: "/storage"}
}

func (d *MemoryDisk) PutStream(_ context.Context, key string, r io.Reader) error {
	if d.FailPut != nil {
		return d.FailPut
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return err
	}
	d.mu.Lock()
	d.objects[key] = buf.Bytes()
	d.mu.Unlock()
	return nil
}

func (d *MemoryDisk) Get(_ context.Context, key string) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	data, ok := d.objects[key]
	if !ok {
		return nil, ErrNotExist
	}
	return append([]byte(nil), data...), nil
}

func (d *MemoryDisk) Exists(_ context.Context, key string) (bool, error) {
	d.mu.Lock()
	_, ok := d.objects[key]
	d.mu.Unlock()
	return ok, nil
}

func (d *MemoryDisk) Delete(_ context.Context, key string) error {
	d.mu.Lock()
	delete(d.objects, key)
	d.mu.Unlock()
	return nil
}

func (d *MemoryDisk) URL(key string) string {
	return strings.TrimRight(d.BaseURL, "/") + "/" + strings.TrimLeft(key, "/")
}

// Keys lists stored keys in order.
func (d *MemoryDisk) Keys() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, 0, len(d.objects))
	for k := range d.objects {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
