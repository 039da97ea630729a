package storage

import (
	"context"
	"io"
)

// File is a single binary upload.
type File struct {
	Reader      io.Reader
	Name        string
	ContentType string
	Size        int64
}

// Service stores campaign images in remote object storage and returns a
// publicly reachable URL for each stored file.
type Service interface {
	UploadImage(ctx context.Context, file File) (string, error)
}
