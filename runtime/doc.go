// Package runtime runs WASI preview1 guests on wazero against an execution
// context built by package wasictx.
//
// # Quick Start
//
//	ctx := context.Background()
//	rt, err := runtime.New(ctx, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close(ctx)
//
//	code, err := rt.Run(ctx, wasmBytes, wctx)
//
// # Bridging
//
// Arguments, environment, the random source and both clocks are handed to
// wazero's module configuration. Sleeps and yields go through the context's
// scheduler. Standard streams bound at descriptors 0 to 2 become the guest's
// stdio, and every preopened directory is mounted at its guest path through
// an experimental/sys.FS backed by the directory adapter, so guest opens go
// through the same flag translation and capability scoping as host callers.
//
// wazero cannot adopt existing host sockets, so preopened sockets are not
// visible to the guest; they are logged and skipped.
package runtime
