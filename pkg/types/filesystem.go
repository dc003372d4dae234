package types

// KindDirectory and KindUnknown are the two fixed classifications a remote
// entry can have; anything else is the entry's lowercase file extension.
const (
	KindDirectory = "Directory"
	KindUnknown   = "Unknown"
)

// FileDescriptor describes one entry in a remote directory listing.
type FileDescriptor struct {
	Name         string `json:"name"`
	Kind         string `json:"kind"`
	Size         uint64 `json:"size"`
	LastModified string `json:"lastModified"`
}

// IsDir reports whether the descriptor refers to a remote directory.
func (f FileDescriptor) IsDir() bool {
	return f.Kind == KindDirectory
}
