package storage

import (
	"context"
	"encoding/base64"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// Uploader stores a file and returns the URL the profile record keeps.
type Uploader interface {
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (storedURL string, err error)
}

// ObjectName builds "{kind}/{uid}/{uuid}{ext}" so re-uploads never collide.
func ObjectName(kind, uid, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	return path.Join(kind, uid, uuid.NewString()+ext)
}

// DataURLUploader inlines the file as a data URL. This is what the profile
// record stores when no bucket is configured.
type DataURLUploader struct{}

func (DataURLUploader) Upload(_ context.Context, _ string, contentType string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(b), nil
}
