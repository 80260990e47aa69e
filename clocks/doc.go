// Package clocks provides the wall and monotonic clocks injected into an
// execution context.
package clocks
