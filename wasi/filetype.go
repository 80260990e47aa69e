package wasi

import "time"

// FileType is the type of the object a descriptor refers to.
type FileType uint8

const (
	FileTypeUnknown FileType = iota
	FileTypeBlockDevice
	FileTypeCharacterDevice
	FileTypeDirectory
	FileTypeRegularFile
	FileTypeSocketDgram
	FileTypeSocketStream
	FileTypeSymbolicLink
)

var fileTypeNames = [...]string{
	FileTypeUnknown:         "unknown",
	FileTypeBlockDevice:     "block_device",
	FileTypeCharacterDevice: "character_device",
	FileTypeDirectory:       "directory",
	FileTypeRegularFile:     "regular_file",
	FileTypeSocketDgram:     "socket_dgram",
	FileTypeSocketStream:    "socket_stream",
	FileTypeSymbolicLink:    "symbolic_link",
}

func (t FileType) String() string {
	if int(t) < len(fileTypeNames) {
		return fileTypeNames[t]
	}
	return "unknown"
}

// Filestat is the metadata returned by fd_filestat_get and path_filestat_get.
type Filestat struct {
	Atim     time.Time
	Mtim     time.Time
	Ctim     time.Time
	Device   uint64
	Inode    uint64
	Nlink    uint64
	Size     uint64
	FileType FileType
}
