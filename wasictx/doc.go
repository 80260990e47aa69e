// Package wasictx assembles the execution context handed to one guest run.
//
// A Builder accumulates arguments, environment variables, stdio bindings,
// preopened directories and sockets, and the clock, scheduler and random
// collaborators. Build finalizes it into a Context whose descriptor bindings
// are pinned for the Context's lifetime:
//
//	dir, _ := hostfs.OpenDir("/srv/data")
//	b := wasictx.NewBuilder(wasictx.WithRandom(random.NewSecureSource()))
//	_ = b.Args([]string{"app", "--verbose"})
//	_, _ = b.PreopenedDir(dir, "/sandbox")
//	ctx, err := b.Build()
//	defer ctx.Close()
//
// Collaborators left unset get host defaults when NewBuilder runs; no
// package-level state is consulted.
package wasictx
