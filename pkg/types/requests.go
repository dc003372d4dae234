package types

// TransferRequest selects files and/or directories under a workspace path for
// download. More than one name, or a single directory, produces an archive.
type TransferRequest struct {
	Path  []string `json:"path"`
	Names []string `json:"names"`
}

// UploadRequest names local files to upload into a workspace path.
type UploadRequest struct {
	Path       []string `json:"path"`
	LocalPaths []string `json:"localPaths"`
}

// FolderRequest creates a folder under a workspace path.
type FolderRequest struct {
	Path []string `json:"path"`
	Name string   `json:"name"`
}

// RenameRequest renames an entry under a workspace path.
type RenameRequest struct {
	Path    []string `json:"path"`
	OldName string   `json:"oldName"`
	NewName string   `json:"newName"`
}

// DeleteRequest removes files and/or directory trees under a workspace path.
type DeleteRequest struct {
	Path  []string `json:"path"`
	Names []string `json:"names"`
}

// SaveFileRequest writes full file content under a workspace path.
type SaveFileRequest struct {
	Path    []string `json:"path"`
	Name    string   `json:"name"`
	Content string   `json:"content"`
}

// DownloadResult reports where a download or archive landed locally.
type DownloadResult struct {
	LocalPaths []string `json:"localPaths"`
}

// ProgressTokenResponse carries a short-lived token for the progress socket.
type ProgressTokenResponse struct {
	Token string `json:"token"`
}
