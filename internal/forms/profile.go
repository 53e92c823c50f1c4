package forms

import "github.com/hirelytics/hirelytics/internal/models"

// Profile is the applicant profile form. Files are uploaded separately.
type Profile struct {
	FirstName         string `json:"firstName" validate:"notblank"`
	LastName          string `json:"lastName" validate:"notblank"`
	Email             string `json:"email" validate:"formemail"`
	Phone             string `json:"phone"`
	Location          string `json:"location"`
	LinkedinURL       string `json:"linkedinUrl"`
	PortfolioURL      string `json:"portfolioUrl"`
	GithubURL         string `json:"githubUrl"`
	Bio               string `json:"bio"`
	CurrentTitle      string `json:"currentTitle"`
	YearsOfExperience string `json:"yearsOfExperience"`
	Availability      string `json:"availability"`
}

func (f *Profile) Normalize() {
	trim(&f.FirstName, &f.LastName, &f.Email, &f.Phone, &f.Location, &f.LinkedinURL,
		&f.PortfolioURL, &f.GithubURL, &f.CurrentTitle, &f.YearsOfExperience, &f.Availability)
}

// Merge writes the form onto the stored profile, leaving the file fields alone.
func (f Profile) Merge(p models.UserProfile) models.UserProfile {
	p.FirstName = f.FirstName
	p.LastName = f.LastName
	p.Email = f.Email
	p.Phone = f.Phone
	p.Location = f.Location
	p.LinkedinURL = f.LinkedinURL
	p.PortfolioURL = f.PortfolioURL
	p.GithubURL = f.GithubURL
	p.Bio = f.Bio
	p.CurrentTitle = f.CurrentTitle
	p.YearsOfExperience = f.YearsOfExperience
	p.Availability = f.Availability
	if p.Availability == "" {
		p.Availability = models.DefaultProfile().Availability
	}
	return p
}

type RecruiterProfile struct {
	CompanyName        string `json:"companyName" validate:"notblank"`
	CompanyWebsite     string `json:"companyWebsite"`
	CompanyLogo        string `json:"companyLogo"`
	CompanyLocation    string `json:"companyLocation"`
	CompanyDescription string `json:"companyDescription"`
	RecruiterName      string `json:"recruiterName"`
	RecruiterEmail     string `json:"recruiterEmail" validate:"omitempty,formemail"`
	RecruiterPhone     string `json:"recruiterPhone"`
	RecruiterTitle     string `json:"recruiterTitle"`
}

func (f *RecruiterProfile) Normalize() {
	trim(&f.CompanyName, &f.CompanyWebsite, &f.CompanyLogo, &f.CompanyLocation,
		&f.RecruiterName, &f.RecruiterEmail, &f.RecruiterPhone, &f.RecruiterTitle)
}

func (f RecruiterProfile) Model() models.RecruiterProfile {
	return models.RecruiterProfile(f)
}
