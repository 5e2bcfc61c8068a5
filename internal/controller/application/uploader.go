package application

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"campus-connect-backend/internal/model"
	"campus-connect-backend/internal/storage"
)

// maxDocumentCount caps how many documents one submission may attach.
const maxDocumentCount = 5

var allowedDocumentExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// DocumentUploader pushes submission documents to the bucket one at a
// time, in input order, and builds the manifest that gets embedded in
// the application row. Object keys are
// {user_id}/{unix_timestamp}_{index}{ext}: unique across students and
// across submissions at different instants; a burst inside the same
// second is disambiguated by the index alone.
type DocumentUploader struct {
	Storage storage.Client

	now func() time.Time
}

// NewDocumentUploader creates an uploader over the given bucket client.
func NewDocumentUploader(store storage.Client) *DocumentUploader {
	return &DocumentUploader{Storage: store, now: time.Now}
}

// Upload stores every file and returns the manifest in input order. The
// first failure aborts the batch: files already stored stay in the
// bucket as orphans and the error is surfaced to the caller, who must
// abort the submission.
func (u *DocumentUploader) Upload(ctx context.Context, userID uuid.UUID, files []*multipart.FileHeader) (model.DocumentList, error) {
	if len(files) > maxDocumentCount {
		return nil, fmt.Errorf("at most %d documents can be attached", maxDocumentCount)
	}

	manifest := make(model.DocumentList, 0, len(files))
	ts := u.now().Unix()

	for i, fh := range files {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("upload cancelled: %w", err)
		}

		ext := strings.ToLower(filepath.Ext(fh.Filename))
		if !allowedDocumentExtensions[ext] {
			return nil, fmt.Errorf("unsupported file extension: %s", ext)
		}

		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("cannot open %s: %w", fh.Filename, err)
		}

		objectName := fmt.Sprintf("%s/%d_%d%s", userID, ts, i, ext)
		err = u.Storage.UploadFile(objectName, f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to store %s: %w", fh.Filename, err)
		}

		manifest = append(manifest, model.DocumentManifest{
			Name: fh.Filename,
			Path: objectName,
			Size: fh.Size,
			Type: fh.Header.Get("Content-Type"),
		})
	}

	return manifest, nil
}
