// Package storage wraps the document bucket holding uploaded admission
// documents. Rows only keep manifest entries; the bytes live here.
package storage

import "io"

// Client is the blob store surface the portal needs. The production
// implementation talks to a cloud bucket; tests substitute an in-memory
// client.
type Client interface {
	UploadFile(objectName string, fileData io.Reader) error
	DownloadFile(objectName string) (io.ReadCloser, int64, error)
}
