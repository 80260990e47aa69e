package resource

import (
	stderrors "errors"
	"io"
	"sync"

	"go.uber.org/multierr"

	"github.com/apepkuss/wasmedge-wasi-for-quark/errors"
	"github.com/apepkuss/wasmedge-wasi-for-quark/wasi"
)

// Table is a guest descriptor table backed by a LocalBackend.
type Table struct {
	backend   *LocalBackend
	observers []Observer
	obsMu     sync.RWMutex
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		backend: NewLocalBackend(),
	}
}

// InsertAt binds e at fd, replacing an unpinned row. The replaced value is
// dropped without being closed; its owner is the caller.
func (t *Table) InsertAt(fd uint32, e Entry) error {
	old, replaced, err := t.backend.Put(fd, e)
	if stderrors.Is(err, ErrPinned) {
		return errors.NotPermitted(errors.PhaseTable, "descriptor %d is pinned", fd)
	}
	if err != nil {
		return errors.Wrap(errors.PhaseTable, errors.KindBadDescriptor, err, "insert")
	}
	if replaced {
		t.notify(Event{Type: EventDropped, FD: fd, Kind: old.Kind, Value: old.Value})
	}
	t.notify(Event{Type: EventCreated, FD: fd, Kind: e.Kind, Value: e.Value})
	return nil
}

// Push binds e at the lowest free descriptor >= FirstFreeFD.
func (t *Table) Push(e Entry) (uint32, error) {
	fd, err := t.backend.Alloc(e)
	if err != nil {
		return 0, errors.Wrap(errors.PhaseTable, errors.KindBadDescriptor, err, "push")
	}
	t.notify(Event{Type: EventCreated, FD: fd, Kind: e.Kind, Value: e.Value})
	return fd, nil
}

// Get returns the row bound at fd.
func (t *Table) Get(fd uint32) (Entry, bool) {
	return t.backend.Get(fd)
}

// GetFile returns the file at fd if every right in caps was granted.
func (t *Table) GetFile(fd uint32, caps wasi.FileCaps) (wasi.File, error) {
	e, ok := t.backend.Get(fd)
	if !ok || e.Kind == KindDir {
		return nil, errors.BadDescriptor(errors.PhaseTable, fd)
	}
	f, ok := e.Value.(wasi.File)
	if !ok {
		return nil, errors.BadDescriptor(errors.PhaseTable, fd)
	}
	if !e.FileCaps.Has(caps) {
		return nil, errors.NotCapable(errors.PhaseTable, fd, caps&^e.FileCaps)
	}
	return f, nil
}

// GetDir returns the directory at fd if every right in caps was granted.
func (t *Table) GetDir(fd uint32, caps wasi.DirCaps) (wasi.Dir, error) {
	e, ok := t.backend.Get(fd)
	if !ok || e.Kind != KindDir {
		return nil, errors.BadDescriptor(errors.PhaseTable, fd)
	}
	d, ok := e.Value.(wasi.Dir)
	if !ok {
		return nil, errors.BadDescriptor(errors.PhaseTable, fd)
	}
	if !e.DirCaps.Has(caps) {
		return nil, errors.NotCapable(errors.PhaseTable, fd, caps&^e.DirCaps)
	}
	return d, nil
}

// Remove unbinds fd and closes its value. Pinned rows fail with
// KindNotPermitted.
func (t *Table) Remove(fd uint32) error {
	e, ok, pinned := t.backend.Drop(fd)
	if pinned {
		return errors.NotPermitted(errors.PhaseTable, "descriptor %d is pinned", fd)
	}
	if !ok {
		return errors.BadDescriptor(errors.PhaseTable, fd)
	}

	var closeErr error
	if c, ok := e.Value.(io.Closer); ok {
		closeErr = c.Close()
	}
	t.notify(Event{Type: EventDropped, FD: fd, Kind: e.Kind, Value: e.Value})
	return closeErr
}

// Freeze pins every current row.
func (t *Table) Freeze() {
	t.backend.Pin()
}

// Subscribe adds an observer for lifecycle events.
func (t *Table) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes an observer.
func (t *Table) Unsubscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

// Len returns the number of bound descriptors.
func (t *Table) Len() int {
	return t.backend.Len()
}

// Each iterates rows in descriptor order until fn returns false.
func (t *Table) Each(fn func(fd uint32, e Entry) bool) {
	t.backend.Each(fn)
}

// Close closes every bound value, pinned or not, and rejects further
// inserts. Close errors are combined.
func (t *Table) Close() error {
	fds, entries := t.backend.Close()

	var err error
	for i, e := range entries {
		if c, ok := e.Value.(io.Closer); ok {
			err = multierr.Append(err, c.Close())
		}
		t.notify(Event{Type: EventDropped, FD: fds[i], Kind: e.Kind, Value: e.Value})
	}
	return err
}

func (t *Table) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnResourceEvent(e)
	}
}
