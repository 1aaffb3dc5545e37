package drive

import "time"

// FolderMimeType is the MIME type Google Drive assigns to folders.
const FolderMimeType = "application/vnd.google-apps.folder"

// File represents a Drive file or folder. Fields are normalized from the
// API response — callers never see raw API data.
type File struct {
	ID         string
	Name       string
	MimeType   string
	ParentID   string // first parent; Drive v3 files have at most one
	Size       int64
	Trashed    bool
	ModifiedAt time.Time
}

// IsFolder reports whether the file is a Drive folder.
func (f *File) IsFolder() bool {
	return f.MimeType == FolderMimeType
}
