// Package sched provides the scheduler injected into an execution context:
// sleeping, yielding and readiness polling of host descriptors.
//
// The runtime bridge uses Sleep and Yield for the guest's clock calls and Poll
// to wait for stdin readiness. Poll is also the surface for embedders that
// implement poll_oneoff over wasi.File.Pollable handles themselves.
//
// Unlike the file adapters, scheduler calls observe context cancellation.
package sched
