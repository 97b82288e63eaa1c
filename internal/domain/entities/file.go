package entities

// FileStatus classifies the result of validating one file.
type FileStatus int

const (
	FileValid FileStatus = iota
	FileEmpty
	FileCorrupted
	FileUnreadable
)

func (s FileStatus) String() string {
	switch s {
	case FileValid:
		return "valid"
	case FileEmpty:
		return "empty"
	case FileCorrupted:
		return "corrupted"
	case FileUnreadable:
		return "unreadable"
	default:
		return "unknown"
	}
}

// FileEntry is one file of the materialized tree, with its validation result
// and the upload key it will be stored under. UploadKey differs from the
// relative source path only when the extension remap applied.
type FileEntry struct {
	SourcePath  string
	UploadKey   string
	Status      FileStatus
	Reason      string // set for corrupted/unreadable entries
	OriginalKey string // set when the upload key was remapped
}

// Renamed reports whether the entry's upload key was remapped.
func (e FileEntry) Renamed() bool {
	return e.OriginalKey != ""
}
