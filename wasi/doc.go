// Package wasi defines the guest-facing vocabulary of the host adapter.
//
// The types here are the portable WASI preview1 views of descriptors: open
// flags, descriptor flags, file types, capability bits and the File and Dir
// capability surfaces. They never mention host option types; translating to
// and from the host is the job of package adapter.
//
// Bit values follow the preview1 ABI so they can be passed to and from guest
// memory unchanged.
package wasi
