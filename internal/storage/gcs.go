package storage

import (
	"context"
	"io"
	"net/url"

	gcs "cloud.google.com/go/storage"

	"github.com/hirelytics/hirelytics/internal/utils"
)

// GCSUploader writes resumes and profile pictures to a bucket when GCS_BUCKET is set.
type GCSUploader struct {
	client *gcs.Client
	bucket string
}

func NewGCSUploader(ctx context.Context, bucket string) (*GCSUploader, error) {
	c, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, "storage.NewGCSUploader", "failed to create storage client", err)
	}
	return &GCSUploader{client: c, bucket: bucket}, nil
}

func (u *GCSUploader) Close() error { return u.client.Close() }

func (u *GCSUploader) Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (string, error) {
	const op = "GCSUploader.Upload"

	obj := u.client.Bucket(u.bucket).Object(objectName)
	w := obj.NewWriter(ctx)
	w.ContentType = contentType
	w.ContentDisposition = "inline"
	w.CacheControl = "private, max-age=0"

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", utils.E(utils.CodeUnavailable, op, "failed to upload file", err)
	}
	if err := w.Close(); err != nil {
		return "", utils.E(utils.CodeUnavailable, op, "failed to upload file", err)
	}

	// profile pages link to the file directly
	if err := obj.ACL().Set(ctx, gcs.AllUsers, gcs.RoleReader); err != nil {
		return "", utils.E(utils.CodeUnavailable, op, "failed to publish file", err)
	}
	return PublicURL(u.bucket, objectName), nil
}

// PublicURL is the browser-facing address of an object in bucket.
func PublicURL(bucket, objectName string) string {
	return (&url.URL{Scheme: "https", Host: "storage.googleapis.com", Path: "/" + bucket + "/" + objectName}).String()
}
