package forms

import (
	"strconv"
	"time"

	"github.com/hirelytics/hirelytics/internal/dashboard"
	"github.com/hirelytics/hirelytics/internal/models"
)

// NewJob is the recruiter's add-job form.
type NewJob struct {
	JobName             string   `json:"jobName" validate:"required"`
	CompanyName         string   `json:"companyName" validate:"required"`
	RecruiterEmail      string   `json:"recruiterEmail" validate:"required,formemail"`
	Description         string   `json:"description" validate:"required"`
	Qualifications      string   `json:"qualifications"`
	PreferredSkills     string   `json:"preferredSkills"`
	Country             string   `json:"country"`
	State               string   `json:"state"`
	City                string   `json:"city"`
	HourlyRate          *float64 `json:"hourlyRate" validate:"omitempty,gte=0"`
	VisaRequired        bool     `json:"visaRequired"`
	JobType             string   `json:"jobType" validate:"omitempty,oneof=onsite remote hybrid"`
	EmploymentType      string   `json:"employmentType" validate:"omitempty,oneof=full-time part-time contract internship"`
	ExperienceLevel     string   `json:"experienceLevel" validate:"omitempty,oneof=entry mid senior lead"`
	ApplicationDeadline string   `json:"applicationDeadline" validate:"omitempty,isodate"`
	GeneralDescription  string   `json:"generalDescription"`
}

func (f *NewJob) Normalize() {
	trim(&f.JobName, &f.CompanyName, &f.RecruiterEmail, &f.Description, &f.Qualifications,
		&f.PreferredSkills, &f.Country, &f.State, &f.City, &f.JobType, &f.EmploymentType,
		&f.ExperienceLevel, &f.ApplicationDeadline, &f.GeneralDescription)
}

func (f NewJob) Posting(recruiterID string, now time.Time) models.JobPosting {
	return models.JobPosting{
		JobName:             f.JobName,
		CompanyName:         f.CompanyName,
		RecruiterEmail:      f.RecruiterEmail,
		Description:         f.Description,
		Qualifications:      f.Qualifications,
		PreferredSkills:     f.PreferredSkills,
		Country:             f.Country,
		State:               f.State,
		City:                f.City,
		HourlyRate:          f.HourlyRate,
		VisaRequired:        f.VisaRequired,
		JobType:             f.JobType,
		EmploymentType:      f.EmploymentType,
		ExperienceLevel:     f.ExperienceLevel,
		ApplicationDeadline: f.ApplicationDeadline,
		GeneralDescription:  f.GeneralDescription,
		RecruiterID:         recruiterID,
		JobSource:           models.JobSourceInternal,
		Status:              models.PostingOpen,
		CreatedAt:           now,
	}
}

func JobSubmitted(id string) Result {
	return Result{
		ID:       id,
		Message:  JobSubmittedMessage,
		Redirect: "/recruiter/JobDetails/" + id,
		DelayMS:  int(JobSubmittedDelay.Milliseconds()),
	}
}

// Apply copies a catalog job into a fresh application. The id is the
// catalog id so a second apply finds the first.
func Apply(job models.AvailableJob, recruiterID string, now time.Time) models.JobApplication {
	loc := dashboard.ParseLocation(job.Location)
	return models.JobApplication{
		ID:              strconv.Itoa(job.ID),
		Company:         job.Company,
		Country:         loc.Country,
		City:            loc.City,
		JobLink:         job.ApplyLink,
		Position:        job.Title,
		ApplicationDate: now.Format("2006-01-02"),
		Status:          models.StatusApplied,
		JobSource:       models.SourceOther,
		Outcome:         models.OutcomePending,
		RecruiterID:     recruiterID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
