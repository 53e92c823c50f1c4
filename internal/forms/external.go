package forms

import (
	"time"

	"github.com/google/uuid"
	"github.com/hirelytics/hirelytics/internal/models"
)

// AutofillRequest is step one of the external job form.
type AutofillRequest struct {
	JobURL string `json:"jobUrl"`
}

// ExternalJob is step two: the confirmed details of a job found elsewhere.
type ExternalJob struct {
	JobURL          string `json:"jobUrl" validate:"required,url"`
	JobSource       string `json:"jobSource" validate:"omitempty,oneof=LinkedIn Indeed Handshake Glassdoor 'Google Jobs' 'Company Career Page' Referral Other"`
	ApplicationDate string `json:"applicationDate" validate:"omitempty,isodate"`
	JobName         string `json:"jobName" validate:"required"`
	CompanyName     string `json:"companyName" validate:"required"`
	CompanyContact  string `json:"companyContact"`
	Description     string `json:"description" validate:"required"`
	Qualifications  string `json:"qualifications"`
	PreferredSkills string `json:"preferredSkills"`
	Country         string `json:"country"`
	State           string `json:"state"`
	City            string `json:"city"`
	PaymentAmount   string `json:"paymentAmount"`
	PaymentType     string `json:"paymentType" validate:"omitempty,oneof=hourly salary"`
	VisaRequired    string `json:"visaRequired" validate:"omitempty,oneof=yes no"`
	WorkArrangement string `json:"workArrangement" validate:"omitempty,oneof=onsite remote hybrid"`
	EmploymentType  string `json:"employmentType" validate:"omitempty,oneof=full-time part-time contract internship"`
	ExperienceLevel string `json:"experienceLevel" validate:"omitempty,oneof=entry mid senior lead"`
}

func (f *ExternalJob) Normalize() {
	trim(&f.JobURL, &f.JobSource, &f.ApplicationDate, &f.JobName, &f.CompanyName,
		&f.CompanyContact, &f.Description, &f.Qualifications, &f.PreferredSkills,
		&f.Country, &f.State, &f.City, &f.PaymentAmount, &f.PaymentType,
		&f.VisaRequired, &f.WorkArrangement, &f.EmploymentType, &f.ExperienceLevel)
	if f.JobSource == "" {
		f.JobSource = "Other"
	}
}

// TrackedSource maps the form's source options onto the stored enum.
func TrackedSource(s string) models.JobSource {
	switch s {
	case "LinkedIn":
		return models.SourceLinkedIn
	case "Indeed":
		return models.SourceIndeed
	case "Glassdoor":
		return models.SourceGlassdoor
	case "Company Career Page":
		return models.SourceCompanyWebsite
	case "Referral":
		return models.SourceReferral
	default:
		return models.SourceOther
	}
}

func (f ExternalJob) Application(now time.Time) models.JobApplication {
	date := f.ApplicationDate
	if date == "" {
		date = now.Format("2006-01-02")
	}
	return models.JobApplication{
		ID:              "tracked-" + uuid.NewString(),
		Company:         f.CompanyName,
		Country:         f.Country,
		City:            f.City,
		JobLink:         f.JobURL,
		Position:        f.JobName,
		ApplicationDate: date,
		Status:          models.StatusApplied,
		ContactPerson:   f.CompanyContact,
		JobSource:       TrackedSource(f.JobSource),
		Outcome:         models.OutcomePending,
		Details: &models.ExternalJobDetails{
			Description:     f.Description,
			Qualifications:  f.Qualifications,
			PreferredSkills: f.PreferredSkills,
			State:           f.State,
			PaymentAmount:   f.PaymentAmount,
			PaymentType:     f.PaymentType,
			VisaRequired:    f.VisaRequired,
			WorkArrangement: f.WorkArrangement,
			EmploymentType:  f.EmploymentType,
			ExperienceLevel: f.ExperienceLevel,
			OriginalSource:  f.JobSource,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func ExternalSaved(id string) Result {
	return Result{
		ID:       id,
		Message:  ExternalSavedMessage,
		Redirect: "/applicant/applications",
		DelayMS:  int(ExternalSavedDelay.Milliseconds()),
	}
}
