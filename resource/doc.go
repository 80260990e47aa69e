// Package resource provides the descriptor table of a guest execution.
//
// A Table maps guest descriptor numbers to host-side values (files,
// directories, sockets and stdio streams) together with the rights granted
// on each descriptor:
//
//	table := resource.NewTable()
//
//	// Bind a value at a fixed descriptor
//	err := table.InsertAt(0, resource.Entry{Kind: resource.KindStdio, Value: stdin, FileCaps: caps})
//
//	// Bind at the lowest free descriptor >= 3
//	fd, err := table.Push(resource.Entry{Kind: resource.KindDir, Value: dir, DirCaps: wasi.AllDirCaps})
//
//	// Checked lookups
//	f, err := table.GetFile(fd, wasi.FileCapsRead)
//
// # Pinned Rows
//
// Freeze pins every row present at that moment. Pinned rows can be neither
// replaced nor removed, so the bindings established while building a context
// stay fixed for its lifetime. Rows added later remain removable.
//
// # Observers
//
// Observers receive an Event for every insert and remove, synchronously and
// in table order:
//
//	table.Subscribe(myObserver)
//
// # Thread Safety
//
// All operations are safe for concurrent use.
package resource
