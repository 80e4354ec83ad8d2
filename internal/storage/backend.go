package storage

import "context"

// Backend writes and reads raw blobs. Save stores data under a fresh
// opaque name and returns the path callers must persist to read it back.
// Write overwrites at an exact path and exists for derivative blobs whose
// path is dictated by the naming convention (original path + "_" + size).
type Backend interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
	Load(ctx context.Context, path string) ([]byte, error)
	Write(ctx context.Context, path string, data []byte) error
	GetName() string
}
