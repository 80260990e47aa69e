// Package random provides the random sources wired into an execution
// context's random slot.
package random
