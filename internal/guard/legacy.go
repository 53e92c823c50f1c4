package guard

import (
	"strings"

	"github.com/hirelytics/hirelytics/internal/models"
)

var legacyRoutes = map[string]string{
	"/jobs":         "/applicant/jobs",
	"/applications": "/applicant/applications",
	"/addNewJob":    "/recruiter/addNewJob",
	"/jobdetails":   "/Jobdetails",
}

// LegacyTarget maps an old "#/..." fragment to its path route. The profile
// fragment depends on the role; without one it lands on the role picker.
func LegacyTarget(hash string, role models.Role) (string, bool) {
	h := strings.TrimPrefix(strings.TrimSpace(hash), "#")
	if h == "" {
		return "", false
	}
	if !strings.HasPrefix(h, "/") {
		h = "/" + h
	}
	if h == "/profile" {
		if !role.Valid() {
			return "/role", true
		}
		return "/" + string(role) + "/profile", true
	}
	to, ok := legacyRoutes[h]
	return to, ok
}
