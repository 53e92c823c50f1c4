package models

import (
	"time"

	"github.com/lib/pq"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AvailableJob is a seed catalog entry, read-only to the application.
type AvailableJob struct {
	ID           int            `gorm:"column:id;primaryKey;autoIncrement:false" json:"id" yaml:"id"`
	Title        string         `gorm:"column:title;type:text" json:"title" yaml:"title"`
	Company      string         `gorm:"column:company;type:text" json:"company" yaml:"company"`
	Location     string         `gorm:"column:location;type:text" json:"location" yaml:"location"`
	Type         string         `gorm:"column:type;type:text" json:"type" yaml:"type"`
	PostedDate   string         `gorm:"column:posted_date;type:text" json:"postedDate" yaml:"postedDate"`
	Salary       string         `gorm:"column:salary;type:text" json:"salary" yaml:"salary"`
	Description  string         `gorm:"column:description;type:text" json:"description" yaml:"description"`
	Requirements pq.StringArray `gorm:"column:requirements;type:text[]" json:"requirements" yaml:"requirements"`
	Status       string         `gorm:"column:status;type:text" json:"status" yaml:"status"`
	ApplyLink    string         `gorm:"column:apply_link;type:text" json:"applyLink" yaml:"applyLink"`

	RecruiterID string `gorm:"-" json:"recruiterId,omitempty" yaml:"-"`
}

func (AvailableJob) TableName() string { return "available_jobs" }

type PostingStatus string

const (
	PostingOpen   PostingStatus = "Open"
	PostingClosed PostingStatus = "Closed"
	PostingPaused PostingStatus = "Paused"
)

const JobSourceInternal = "internal"

// JobPosting is a recruiter-authored job in the jobs collection.
type JobPosting struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	JobName             string             `bson:"job_name" json:"jobName"`
	CompanyName         string             `bson:"company_name" json:"companyName"`
	RecruiterEmail      string             `bson:"recruiter_email" json:"recruiterEmail"`
	Description         string             `bson:"description" json:"description"`
	Qualifications      string             `bson:"qualifications" json:"qualifications"`
	PreferredSkills     string             `bson:"preferred_skills" json:"preferredSkills"`
	Country             string             `bson:"country" json:"country"`
	State               string             `bson:"state" json:"state"`
	City                string             `bson:"city" json:"city"`
	HourlyRate          *float64           `bson:"hourly_rate,omitempty" json:"hourlyRate"`
	VisaRequired        bool               `bson:"visa_required" json:"visaRequired"`
	JobType             string             `bson:"job_type" json:"jobType"`
	EmploymentType      string             `bson:"employment_type" json:"employmentType"`
	ExperienceLevel     string             `bson:"experience_level" json:"experienceLevel"`
	ApplicationDeadline string             `bson:"application_deadline" json:"applicationDeadline"`
	GeneralDescription  string             `bson:"general_description" json:"generalDescription"`
	RecruiterID         string             `bson:"recruiter_id" json:"recruiterId"`
	JobSource           string             `bson:"job_source" json:"jobSource"`
	Status              PostingStatus      `bson:"status" json:"status"`
	CreatedAt           time.Time          `bson:"created_at" json:"createdAt"`
}
