package resource

import (
	"errors"
	"maps"
	"math"
	"slices"
	"sync"
)

var (
	ErrClosed    = errors.New("descriptor table closed")
	ErrExhausted = errors.New("descriptor table exhausted")
	ErrPinned    = errors.New("descriptor is pinned")
)

// LocalBackend is the in-memory row storage of a Table. Rows are keyed by
// descriptor number, so a row bound at a high descriptor costs no more than
// one at a low one.
type LocalBackend struct {
	entries map[uint32]Entry
	// lowFree is a lower bound on the first free descriptor >= FirstFreeFD.
	lowFree uint32
	mu      sync.RWMutex
	closed  bool
}

// NewLocalBackend creates an empty backend.
func NewLocalBackend() *LocalBackend {
	return &LocalBackend{
		entries: make(map[uint32]Entry, 16),
		lowFree: FirstFreeFD,
	}
}

// Put stores e at fd, returning the row it replaced. A pinned row fails with
// ErrPinned.
func (b *LocalBackend) Put(fd uint32, e Entry) (Entry, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return Entry{}, false, ErrClosed
	}
	old, replaced := b.entries[fd]
	if replaced && old.Pinned {
		return Entry{}, false, ErrPinned
	}
	b.entries[fd] = e
	return old, replaced, nil
}

// Alloc stores e at the lowest free descriptor >= FirstFreeFD.
func (b *LocalBackend) Alloc(e Entry) (uint32, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, ErrClosed
	}
	fd := b.lowFree
	for {
		if _, used := b.entries[fd]; !used {
			break
		}
		if fd == math.MaxUint32 {
			return 0, ErrExhausted
		}
		fd++
	}
	b.entries[fd] = e
	b.lowFree = fd
	if fd < math.MaxUint32 {
		b.lowFree = fd + 1
	}
	return fd, nil
}

// Get returns the row at fd.
func (b *LocalBackend) Get(fd uint32) (Entry, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	e, ok := b.entries[fd]
	return e, ok
}

// Drop removes the row at fd. Pinned rows are kept and reported with
// pinned=true.
func (b *LocalBackend) Drop(fd uint32) (e Entry, ok, pinned bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok = b.entries[fd]
	if !ok {
		return Entry{}, false, false
	}
	if e.Pinned {
		return e, false, true
	}
	delete(b.entries, fd)
	if fd >= FirstFreeFD && fd < b.lowFree {
		b.lowFree = fd
	}
	return e, true, false
}

// Pin marks every current row as pinned.
func (b *LocalBackend) Pin() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for fd, e := range b.entries {
		e.Pinned = true
		b.entries[fd] = e
	}
}

// Close empties the backend and returns the rows it held in descriptor
// order. Further writes fail with ErrClosed.
func (b *LocalBackend) Close() (fds []uint32, entries []Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, nil
	}
	b.closed = true

	fds = b.sortedFDs()
	entries = make([]Entry, 0, len(fds))
	for _, fd := range fds {
		entries = append(entries, b.entries[fd])
	}
	clear(b.entries)
	return fds, entries
}

// Len returns the number of rows.
func (b *LocalBackend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}

// Each iterates rows in descriptor order until fn returns false.
func (b *LocalBackend) Each(fn func(uint32, Entry) bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, fd := range b.sortedFDs() {
		if !fn(fd, b.entries[fd]) {
			break
		}
	}
}

func (b *LocalBackend) sortedFDs() []uint32 {
	return slices.Sorted(maps.Keys(b.entries))
}
