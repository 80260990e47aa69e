package adapter

import (
	"io/fs"

	"github.com/apepkuss/wasmedge-wasi-for-quark/hostfs"
	"github.com/apepkuss/wasmedge-wasi-for-quark/wasi"
)

// FileTypeFrom classifies host type predicates. The first match wins in the
// order directory, symlink, socket, block device, char device, regular file.
// A socket that also reports as a block device is a datagram socket.
func FileTypeFrom(p hostfs.TypePredicates) wasi.FileType {
	switch {
	case p.Dir:
		return wasi.FileTypeDirectory
	case p.Symlink:
		return wasi.FileTypeSymbolicLink
	case p.Socket:
		if p.BlockDevice {
			return wasi.FileTypeSocketDgram
		}
		return wasi.FileTypeSocketStream
	case p.BlockDevice:
		return wasi.FileTypeBlockDevice
	case p.CharDevice:
		return wasi.FileTypeCharacterDevice
	case p.File:
		return wasi.FileTypeRegularFile
	default:
		return wasi.FileTypeUnknown
	}
}

func fileTypeFromMode(m fs.FileMode) wasi.FileType {
	return FileTypeFrom(hostfs.PredicatesFromMode(m))
}
