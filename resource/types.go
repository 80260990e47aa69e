package resource

import (
	"github.com/apepkuss/wasmedge-wasi-for-quark/wasi"
)

// FirstFreeFD is the lowest descriptor Push allocates; 0 to 2 are stdio.
const FirstFreeFD uint32 = 3

// Kind classifies the value bound to a descriptor.
type Kind uint8

const (
	KindFile Kind = iota
	KindDir
	KindSocket
	KindStdio
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDir:
		return "dir"
	case KindSocket:
		return "socket"
	case KindStdio:
		return "stdio"
	}
	return "unknown"
}

// Entry is one descriptor table row.
type Entry struct {
	// Value is a wasi.File for every kind except KindDir, which holds a
	// wasi.Dir.
	Value    any
	FileCaps wasi.FileCaps
	// DirCaps is only meaningful for KindDir.
	DirCaps wasi.DirCaps
	// GuestPath is the guest-visible path of a preopened directory.
	GuestPath string
	Kind      Kind
	Pinned    bool
}

// EventType identifies a table lifecycle event.
type EventType uint8

const (
	EventCreated EventType = iota
	EventDropped
)

// Event is a table lifecycle notification.
type Event struct {
	Value any
	FD    uint32
	Kind  Kind
	Type  EventType
}

// Observer receives table lifecycle events.
type Observer interface {
	OnResourceEvent(Event)
}
