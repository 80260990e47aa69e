package resource

import (
	"errors"
	"math"
	"sync"
	"testing"
)

func TestLocalBackend_Basic(t *testing.T) {
	b := NewLocalBackend()

	fd, err := b.Alloc(Entry{Value: "a"})
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	if fd != FirstFreeFD {
		t.Fatalf("Expected fd %d, got %d", FirstFreeFD, fd)
	}

	e, ok := b.Get(fd)
	if !ok || e.Value != "a" {
		t.Fatalf("Get = %v, %v", e, ok)
	}

	e, ok, pinned := b.Drop(fd)
	if !ok || pinned || e.Value != "a" {
		t.Fatalf("Drop = %v, %v, %v", e, ok, pinned)
	}
	if _, ok := b.Get(fd); ok {
		t.Fatal("Expected Get to fail after Drop")
	}
	if b.Len() != 0 {
		t.Fatalf("Expected Len() == 0, got %d", b.Len())
	}
}

func TestLocalBackend_LowestFree(t *testing.T) {
	b := NewLocalBackend()

	for i := 0; i < 3; i++ {
		if _, err := b.Alloc(Entry{Value: i}); err != nil {
			t.Fatal(err)
		}
	}
	// 3, 4, 5 in use; free 4 and expect it back first.
	b.Drop(4)
	fd, _ := b.Alloc(Entry{Value: "x"})
	if fd != 4 {
		t.Fatalf("Expected reuse of fd 4, got %d", fd)
	}
	fd, _ = b.Alloc(Entry{Value: "y"})
	if fd != 6 {
		t.Fatalf("Expected fd 6, got %d", fd)
	}
}

func TestLocalBackend_AllocSkipsPut(t *testing.T) {
	b := NewLocalBackend()

	if _, _, err := b.Put(3, Entry{Value: "fixed"}); err != nil {
		t.Fatal(err)
	}
	fd, _ := b.Alloc(Entry{Value: "next"})
	if fd != 4 {
		t.Fatalf("Expected fd 4, got %d", fd)
	}

	// Stdio descriptors are never handed out by Alloc.
	b.Put(0, Entry{Value: "stdin"})
	b.Drop(0)
	fd, _ = b.Alloc(Entry{})
	if fd < FirstFreeFD {
		t.Fatalf("Alloc returned reserved fd %d", fd)
	}
}

func TestLocalBackend_Pinned(t *testing.T) {
	b := NewLocalBackend()
	b.Put(3, Entry{Value: "dir"})
	b.Pin()

	if _, ok, pinned := b.Drop(3); ok || !pinned {
		t.Fatalf("Expected pinned drop refusal, ok=%v pinned=%v", ok, pinned)
	}
	if _, _, err := b.Put(3, Entry{Value: "other"}); !errors.Is(err, ErrPinned) {
		t.Fatalf("Expected ErrPinned, got %v", err)
	}

	fd, _ := b.Alloc(Entry{Value: "later"})
	if _, ok, _ := b.Drop(fd); !ok {
		t.Fatal("Rows added after Pin must stay removable")
	}
}

func TestLocalBackend_Close(t *testing.T) {
	b := NewLocalBackend()
	b.Put(1, Entry{Value: "out"})
	b.Alloc(Entry{Value: "file"})

	fds, entries := b.Close()
	if len(fds) != 2 || fds[0] != 1 || fds[1] != 3 {
		t.Fatalf("Unexpected fds %v", fds)
	}
	if entries[1].Value != "file" {
		t.Fatalf("Unexpected entries %v", entries)
	}
	if _, err := b.Alloc(Entry{}); !errors.Is(err, ErrClosed) {
		t.Fatalf("Expected ErrClosed, got %v", err)
	}
	if fds, _ := b.Close(); fds != nil {
		t.Fatal("Second Close must be a no-op")
	}
}

func TestLocalBackend_Concurrent(t *testing.T) {
	b := NewLocalBackend()
	var wg sync.WaitGroup
	seen := make(chan uint32, 100)

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fd, err := b.Alloc(Entry{})
			if err != nil {
				t.Error(err)
				return
			}
			seen <- fd
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[uint32]bool)
	for fd := range seen {
		if unique[fd] {
			t.Fatalf("fd %d allocated twice", fd)
		}
		unique[fd] = true
	}
	if b.Len() != 100 {
		t.Fatalf("Expected 100 rows, got %d", b.Len())
	}
}

func TestLocalBackend_HighDescriptor(t *testing.T) {
	b := NewLocalBackend()

	if _, _, err := b.Put(math.MaxUint32, Entry{Value: "sock"}); err != nil {
		t.Fatalf("Put at max descriptor failed: %v", err)
	}
	if e, ok := b.Get(math.MaxUint32); !ok || e.Value != "sock" {
		t.Fatalf("Get = %v, %v", e, ok)
	}
	if b.Len() != 1 {
		t.Fatalf("Expected Len() == 1, got %d", b.Len())
	}

	fd, err := b.Alloc(Entry{Value: "file"})
	if err != nil || fd != FirstFreeFD {
		t.Fatalf("Alloc = %d, %v", fd, err)
	}

	var order []uint32
	b.Each(func(fd uint32, _ Entry) bool {
		order = append(order, fd)
		return true
	})
	if len(order) != 2 || order[0] != FirstFreeFD || order[1] != math.MaxUint32 {
		t.Fatalf("Unexpected iteration order %v", order)
	}
}

func TestLocalBackend_ExhaustedAtTop(t *testing.T) {
	b := NewLocalBackend()
	b.lowFree = math.MaxUint32

	fd, err := b.Alloc(Entry{})
	if err != nil || fd != math.MaxUint32 {
		t.Fatalf("Alloc = %d, %v", fd, err)
	}
	if _, err := b.Alloc(Entry{}); !errors.Is(err, ErrExhausted) {
		t.Fatalf("Expected ErrExhausted, got %v", err)
	}
	b.Drop(math.MaxUint32)
	if fd, err := b.Alloc(Entry{}); err != nil || fd != math.MaxUint32 {
		t.Fatalf("Expected the freed top descriptor back, got %d, %v", fd, err)
	}
}
