package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataURLUploader(t *testing.T) {
	url, err := DataURLUploader{}.Upload(context.Background(), "x", "application/pdf", strings.NewReader("hi"))
	require.NoError(t, err)
	assert.Equal(t, "data:application/pdf;base64,aGk=", url)
}

func TestDataURLUploader_DefaultType(t *testing.T) {
	url, err := DataURLUploader{}.Upload(context.Background(), "x", "", strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, "data:application/octet-stream;base64,", url)
}

func TestObjectName(t *testing.T) {
	n := ObjectName("resumes", "u1", "CV.PDF")
	assert.True(t, strings.HasPrefix(n, "resumes/u1/"))
	assert.True(t, strings.HasSuffix(n, ".pdf"))
}

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "https://storage.googleapis.com/cv-bucket/resumes/u1/a.pdf", PublicURL("cv-bucket", "resumes/u1/a.pdf"))
	assert.Equal(t, "https://storage.googleapis.com/b/pictures/u%201/x.png", PublicURL("b", "pictures/u 1/x.png"))
}
