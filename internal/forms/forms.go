// Package forms defines the submit payloads of the four web forms and what
// each returns on success.
package forms

import (
	"strings"
	"time"
)

// Result tells the client what to show and where to go after a write.
type Result struct {
	ID       string `json:"id,omitempty"`
	Message  string `json:"message"`
	Redirect string `json:"redirect,omitempty"`
	DelayMS  int    `json:"delayMs,omitempty"`
}

const (
	JobSubmittedMessage    = "Job submitted. Redirecting to Job Details..."
	JobSubmittedDelay      = 2000 * time.Millisecond
	ExternalSavedMessage   = "Saved. Redirecting to My Applications..."
	ExternalSavedDelay     = 800 * time.Millisecond
	ProfileSavedMessage    = "Profile updated successfully"
	RecruiterSavedMessage  = "Recruiter profile saved"
	ResumeUploadedMessage  = "Resume uploaded successfully"
	PictureUploadedMessage = "Profile picture uploaded successfully"
)

func trim(ps ...*string) {
	for _, p := range ps {
		*p = strings.TrimSpace(*p)
	}
}
