package wasi

// FileCaps are the operations a descriptor table grants on a file.
type FileCaps uint32

const (
	FileCapsDatasync FileCaps = 1 << iota
	FileCapsRead
	FileCapsSeek
	FileCapsFdstatSetFlags
	FileCapsSync
	FileCapsTell
	FileCapsWrite
	FileCapsAdvise
	FileCapsAllocate
	FileCapsFilestatGet
	FileCapsFilestatSetSize
	FileCapsFilestatSetTimes
	FileCapsPollReadwrite
)

// AllFileCaps grants every file operation.
const AllFileCaps = FileCapsDatasync | FileCapsRead | FileCapsSeek | FileCapsFdstatSetFlags |
	FileCapsSync | FileCapsTell | FileCapsWrite | FileCapsAdvise | FileCapsAllocate |
	FileCapsFilestatGet | FileCapsFilestatSetSize | FileCapsFilestatSetTimes | FileCapsPollReadwrite

// Has reports whether every bit of o is set.
func (c FileCaps) Has(o FileCaps) bool { return c&o == o }

func (c FileCaps) String() string {
	return flagString(uint64(c), []string{
		"DATASYNC", "READ", "SEEK", "FDSTAT_SET_FLAGS", "SYNC", "TELL", "WRITE",
		"ADVISE", "ALLOCATE", "FILESTAT_GET", "FILESTAT_SET_SIZE", "FILESTAT_SET_TIMES",
		"POLL_READWRITE",
	})
}

// DirCaps are the operations a descriptor table grants on a directory.
type DirCaps uint32

const (
	DirCapsCreateDirectory DirCaps = 1 << iota
	DirCapsCreateFile
	DirCapsLinkSource
	DirCapsLinkTarget
	DirCapsOpen
	DirCapsReaddir
	DirCapsReadlink
	DirCapsRenameSource
	DirCapsRenameTarget
	DirCapsSymlink
	DirCapsRemoveDirectory
	DirCapsUnlinkFile
	DirCapsPathFilestatGet
	DirCapsPathFilestatSetTimes
	DirCapsFilestatGet
	DirCapsFilestatSetTimes
)

// AllDirCaps grants every directory operation.
const AllDirCaps = DirCapsCreateDirectory | DirCapsCreateFile | DirCapsLinkSource |
	DirCapsLinkTarget | DirCapsOpen | DirCapsReaddir | DirCapsReadlink | DirCapsRenameSource |
	DirCapsRenameTarget | DirCapsSymlink | DirCapsRemoveDirectory | DirCapsUnlinkFile |
	DirCapsPathFilestatGet | DirCapsPathFilestatSetTimes | DirCapsFilestatGet | DirCapsFilestatSetTimes

// Has reports whether every bit of o is set.
func (c DirCaps) Has(o DirCaps) bool { return c&o == o }

func (c DirCaps) String() string {
	return flagString(uint64(c), []string{
		"CREATE_DIRECTORY", "CREATE_FILE", "LINK_SOURCE", "LINK_TARGET", "OPEN", "READDIR",
		"READLINK", "RENAME_SOURCE", "RENAME_TARGET", "SYMLINK", "REMOVE_DIRECTORY",
		"UNLINK_FILE", "PATH_FILESTAT_GET", "PATH_FILESTAT_SET_TIMES", "FILESTAT_GET",
		"FILESTAT_SET_TIMES",
	})
}
