package guard

import "strings"

type Page string

const (
	PageHome          Page = "home"
	PageAvailable     Page = "available"
	PageApplications  Page = "applications"
	PageProfile       Page = "profile"
	PageAddNewJob     Page = "addNewJob"
	PageRole          Page = "role"
	PageRecruiterHome Page = "recruiterHome"
	PageJobDetails    Page = "jobDetails"
)

// PageFromPath classifies a path the way the navbar highlights it.
func PageFromPath(path string) Page {
	switch {
	case strings.HasPrefix(path, "/applicant/applications"):
		return PageApplications
	case strings.HasPrefix(path, "/applicant/jobs"):
		return PageAvailable
	case strings.HasPrefix(path, "/recruiter/addNewJob"):
		return PageAddNewJob
	case strings.HasPrefix(path, "/recruiter/myJobs"):
		return PageRecruiterHome
	case strings.HasPrefix(path, "/applicant/profile"), strings.HasPrefix(path, "/recruiter/profile"):
		return PageProfile
	case strings.HasPrefix(path, "/role"):
		return PageRole
	case strings.HasPrefix(path, "/Jobdetails"):
		return PageJobDetails
	default:
		return PageHome
	}
}

func IsPublic(path string) bool {
	switch {
	case path == "/", path == "/home":
		return true
	case strings.HasPrefix(path, "/sign-in"), strings.HasPrefix(path, "/sign-up"):
		return true
	}
	return false
}

func IsProtected(path string) bool {
	return inArea(path, "/applicant") || inArea(path, "/recruiter") ||
		inArea(path, "/role") || inArea(path, "/Jobdetails")
}

// inArea matches prefix itself or prefix followed by a path segment, so
// "/roles" is not inside "/role".
func inArea(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// IsProfilePage reports whether path is the given role's own profile page.
func IsProfilePage(path, role string) bool {
	return inArea(path, "/"+role+"/profile")
}
