// Package wasihost is a capability-scoped WASI host adapter.
//
// It lets a sandboxed WASI guest perform filesystem and descriptor
// operations against the real operating system while keeping capability
// based access control: every path a guest names is resolved relative to a
// directory it was explicitly handed, and every descriptor carries the
// rights it was granted.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	wasihost/
//	├── errors/      Structured error types (Phase × Kind)
//	├── wasi/        Guest vocabulary: flags, file types, rights, File and Dir
//	├── hostfs/      Host primitive: os.Root directories, fd flags, vectored I/O
//	├── adapter/     Flag translation, type classification, file/dir/socket adapters
//	├── resource/    Descriptor table: guest fd to resource plus rights
//	├── clocks/      Wall and monotonic clock collaborators
//	├── sched/       Sleep, yield and readiness polling collaborator
//	├── random/      ChaCha8 random source collaborator
//	├── wasictx/     Context builder and execution context
//	├── metrics/     Prometheus observer over descriptor lifecycle events
//	├── runtime/     Runs preview1 guests on wazero against an execution context
//	├── config/      YAML configuration for the command line
//	└── cmd/wasihost Command line runner with an interactive descriptor viewer
//
// # Quick Start
//
// Build a context with one preopened directory and run a guest:
//
//	dir, err := hostfs.OpenDir("/srv/data")
//	if err != nil {
//	    return err
//	}
//
//	b := wasictx.NewBuilder()
//	b.Arg("app")
//	b.Env("HOME", "/home/guest")
//	if _, err := b.PreopenedDir(dir, "/sandbox"); err != nil {
//	    return err
//	}
//	wctx, err := b.Build()
//	if err != nil {
//	    return err
//	}
//	defer wctx.Close()
//
//	rt, err := runtime.New(ctx, nil)
//	if err != nil {
//	    return err
//	}
//	defer rt.Close(ctx)
//
//	code, err := rt.Run(ctx, wasmBytes, wctx)
//
// # Translation Rules
//
// Guest open requests are translated by adapter.ToOpenOptions. CREATE with
// EXCLUSIVE creates a new file, CREATE alone creates or opens, and either
// implies write access. An open that asks for neither read nor write is
// opened for reading. The synchronized I/O flags DSYNC, RSYNC and SYNC are
// refused with errors.KindNotSupported before the host is touched, and
// NONBLOCK is applied to the descriptor after the open succeeds.
//
// # Blocking
//
// Adapters are synchronous. Every call blocks the calling goroutine until
// the host returns; context parameters exist for interface shape and do not
// cancel host calls.
package wasihost
