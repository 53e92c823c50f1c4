package models

import "strings"

type UserProfile struct {
	FirstName string `bson:"first_name" json:"firstName"`
	LastName  string `bson:"last_name" json:"lastName"`
	Email     string `bson:"email" json:"email"`
	Phone     string `bson:"phone" json:"phone"`
	Location  string `bson:"location" json:"location"`

	LinkedinURL  string `bson:"linkedin_url" json:"linkedinUrl"`
	PortfolioURL string `bson:"portfolio_url" json:"portfolioUrl"`
	GithubURL    string `bson:"github_url" json:"githubUrl"`

	// data URLs, or object URLs when blob storage is configured
	ProfilePicture *string `bson:"profile_picture,omitempty" json:"profilePicture"`
	ResumeFile     *string `bson:"resume_file,omitempty" json:"resumeFile"`
	ResumeFileName *string `bson:"resume_file_name,omitempty" json:"resumeFileName"`

	Bio string `bson:"bio" json:"bio"`

	CurrentTitle      string `bson:"current_title" json:"currentTitle"`
	YearsOfExperience string `bson:"years_of_experience" json:"yearsOfExperience"`
	Availability      string `bson:"availability" json:"availability"`
}

func DefaultProfile() UserProfile {
	return UserProfile{Availability: "Immediately"}
}

// Complete reports whether the fields the profile banner checks are filled.
func (p UserProfile) Complete() bool {
	return nonBlank(p.FirstName) && nonBlank(p.LastName) && nonBlank(p.Email)
}

type RecruiterProfile struct {
	CompanyName        string `bson:"company_name" json:"companyName"`
	CompanyWebsite     string `bson:"company_website" json:"companyWebsite"`
	CompanyLogo        string `bson:"company_logo" json:"companyLogo"`
	CompanyLocation    string `bson:"company_location" json:"companyLocation"`
	CompanyDescription string `bson:"company_description" json:"companyDescription"`
	RecruiterName      string `bson:"recruiter_name" json:"recruiterName"`
	RecruiterEmail     string `bson:"recruiter_email" json:"recruiterEmail"`
	RecruiterPhone     string `bson:"recruiter_phone" json:"recruiterPhone"`
	RecruiterTitle     string `bson:"recruiter_title" json:"recruiterTitle"`
}

func (p RecruiterProfile) Complete() bool {
	return nonBlank(p.CompanyName) && nonBlank(p.RecruiterEmail)
}

func nonBlank(s string) bool { return strings.TrimSpace(s) != "" }
