package validation

import (
	"path/filepath"
	"strings"

	"github.com/hirelytics/hirelytics/internal/utils"
)

const (
	MaxResumeBytes  = 10 * 1024 * 1024
	MaxPictureBytes = 5 * 1024 * 1024
)

var resumeExts = map[string]struct{}{".pdf": {}, ".doc": {}, ".docx": {}}

// CheckResume accepts .pdf, .doc and .docx files up to 10MB.
func CheckResume(op, fileName string, size int64) error {
	ext := strings.ToLower(filepath.Ext(fileName))
	if _, ok := resumeExts[ext]; !ok {
		return utils.Invalid(op, "Unsupported file type", map[string]string{
			"file": "Resume must be a .pdf, .doc or .docx file",
		})
	}
	if size > MaxResumeBytes {
		return utils.Invalid(op, "File too large", map[string]string{
			"file": "Resume must be less than 10MB",
		})
	}
	return nil
}

// CheckPicture accepts any image/* content type up to 5MB.
func CheckPicture(op, contentType string, size int64) error {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if !strings.HasPrefix(ct, "image/") {
		return utils.Invalid(op, "Unsupported file type", map[string]string{
			"file": "Profile picture must be an image",
		})
	}
	if size > MaxPictureBytes {
		return utils.Invalid(op, "File too large", map[string]string{
			"file": "Profile picture must be less than 5MB",
		})
	}
	return nil
}
