package models

import "time"

type ApplicationStatus string

const (
	StatusApplied   ApplicationStatus = "Applied"
	StatusInterview ApplicationStatus = "Interview"
	StatusRejected  ApplicationStatus = "Rejected"
	StatusOffer     ApplicationStatus = "Offer"
	StatusWithdrawn ApplicationStatus = "Withdrawn"
)

var Statuses = []ApplicationStatus{StatusApplied, StatusInterview, StatusRejected, StatusOffer, StatusWithdrawn}

func (s ApplicationStatus) Valid() bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

type Outcome string

const (
	OutcomePending      Outcome = "Pending"
	OutcomeSuccessful   Outcome = "Successful"
	OutcomeUnsuccessful Outcome = "Unsuccessful"
	OutcomeInProgress   Outcome = "In Progress"
)

type JobSource string

const (
	SourceLinkedIn       JobSource = "LinkedIn"
	SourceCompanyWebsite JobSource = "Company Website"
	SourceIndeed         JobSource = "Indeed"
	SourceGlassdoor      JobSource = "Glassdoor"
	SourceReferral       JobSource = "Referral"
	SourceOther          JobSource = "Other"
)

// JobApplication is one tracked application, owned by UserID.
type JobApplication struct {
	UserID          string            `bson:"user_id" json:"-"`
	ID              string            `bson:"id" json:"id"`
	Company         string            `bson:"company" json:"company"`
	Country         string            `bson:"country" json:"country"`
	City            string            `bson:"city" json:"city"`
	JobLink         string            `bson:"job_link" json:"jobLink"`
	Position        string            `bson:"position" json:"position"`
	ApplicationDate string            `bson:"application_date" json:"applicationDate"`
	Status          ApplicationStatus `bson:"status" json:"status"`
	ContactPerson   string            `bson:"contact_person" json:"contactPerson"`
	Notes           string            `bson:"notes" json:"notes"`
	JobSource       JobSource         `bson:"job_source" json:"jobSource"`
	Outcome         Outcome           `bson:"outcome" json:"outcome"`
	RecruiterID     string            `bson:"recruiter_id,omitempty" json:"recruiterId,omitempty"`

	Details *ExternalJobDetails `bson:"details,omitempty" json:"details,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// ExternalJobDetails keeps the extra fields captured when tracking a job found elsewhere.
type ExternalJobDetails struct {
	Description     string `bson:"description" json:"description"`
	Qualifications  string `bson:"qualifications,omitempty" json:"qualifications,omitempty"`
	PreferredSkills string `bson:"preferred_skills,omitempty" json:"preferredSkills,omitempty"`
	State           string `bson:"state,omitempty" json:"state,omitempty"`
	PaymentAmount   string `bson:"payment_amount,omitempty" json:"paymentAmount,omitempty"`
	PaymentType     string `bson:"payment_type,omitempty" json:"paymentType,omitempty"`
	VisaRequired    string `bson:"visa_required,omitempty" json:"visaRequired,omitempty"`
	WorkArrangement string `bson:"work_arrangement,omitempty" json:"workArrangement,omitempty"`
	EmploymentType  string `bson:"employment_type,omitempty" json:"employmentType,omitempty"`
	ExperienceLevel string `bson:"experience_level,omitempty" json:"experienceLevel,omitempty"`
	OriginalSource  string `bson:"original_source,omitempty" json:"originalSource,omitempty"`
}
