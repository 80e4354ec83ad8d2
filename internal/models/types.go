package models

type FileType string

const (
	TypeFolder FileType = "folder"
	TypeFile   FileType = "file"
	TypeImage  FileType = "image"
)

// RootParentID is the sentinel parent of top-level entries.
const RootParentID = "0"

// ThumbnailWidths are the derivative sizes produced for every image,
// smallest first. A derivative lives at the original blob path suffixed
// with "_<width>".
var ThumbnailWidths = []int{100, 250, 500}

func ValidFileType(t FileType) bool {
	return t == TypeFolder || t == TypeFile || t == TypeImage
}

type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}

// FileEntry is the metadata record for a stored file or folder.
// LocalPath is where the blob lives on the storage backend; it is never
// serialized to clients.
type FileEntry struct {
	ID        string   `json:"id"`
	UserID    string   `json:"userId"`
	Name      string   `json:"name"`
	Type      FileType `json:"type"`
	IsPublic  bool     `json:"isPublic"`
	ParentID  string   `json:"parentId"`
	LocalPath string   `json:"-"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type StatusResponse struct {
	Redis bool `json:"redis"`
	DB    bool `json:"db"`
}

type StatsResponse struct {
	Users int64 `json:"users"`
	Files int64 `json:"files"`
}
