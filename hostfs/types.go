package hostfs

import "io/fs"

// TypePredicates are the host's file type tests. More than one may hold for
// the same file on some platforms; consumers decide precedence.
type TypePredicates struct {
	Dir         bool
	Symlink     bool
	Socket      bool
	BlockDevice bool
	CharDevice  bool
	File        bool
}

// PredicatesFromMode derives predicates from host metadata.
func PredicatesFromMode(m fs.FileMode) TypePredicates {
	return TypePredicates{
		Dir:         m.IsDir(),
		Symlink:     m&fs.ModeSymlink != 0,
		Socket:      m&fs.ModeSocket != 0,
		BlockDevice: m&fs.ModeDevice != 0 && m&fs.ModeCharDevice == 0,
		CharDevice:  m&fs.ModeCharDevice != 0,
		File:        m.IsRegular(),
	}
}
