package domain

import (
	"time"
)

type Status string

const (
	StatusApplied     Status = "Applied"
	StatusAssigned    Status = "Assigned"
	StatusInterviewed Status = "Interviewed"
	StatusOnHold      Status = "OnHold"
	StatusRejected    Status = "Rejected"
	StatusSelected    Status = "Selected"
	StatusOffered     Status = "Offered"
	StatusJoined      Status = "Joined"
)

var Statuses = []Status{
	StatusApplied,
	StatusAssigned,
	StatusInterviewed,
	StatusOnHold,
	StatusRejected,
	StatusSelected,
	StatusOffered,
	StatusJoined,
}

// OutcomeStatuses are the values an assigned HOD may record.
var OutcomeStatuses = []Status{
	StatusInterviewed,
	StatusRejected,
	StatusSelected,
	StatusOnHold,
}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

func (s Status) IsOutcome() bool {
	for _, v := range OutcomeStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type Application struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email,omitempty"`
	DateOfBirth       string    `json:"dateOfBirth"`
	Contact           string    `json:"contact"`
	CurrentAddress    string    `json:"currentAddress"`
	PermanentAddress  string    `json:"permanentAddress"`
	Position          string    `json:"position"`
	Department        string    `json:"department"`
	ExperienceSummary string    `json:"experienceSummary"`
	NoticePeriod      string    `json:"noticePeriod"`
	LastSalary        string    `json:"lastSalary"`
	ExpectedSalary    string    `json:"expectedSalary"`
	ReferenceName     string    `json:"referenceName"`
	ReferenceContact  string    `json:"referenceContact"`
	OtherDetails      string    `json:"otherDetails"`
	ResumeRef         string    `json:"resumeRef,omitempty"`
	ResumeName        string    `json:"resumeName,omitempty"`
	ResumeContentType string    `json:"resumeContentType,omitempty"`
	Status            Status    `json:"status"`
	AssignedHODID     *int64    `json:"assignedHodID"`
	HODRemarks        string    `json:"hodRemarks"`
	SubmittedAt       time.Time `json:"submittedAt"`
	UpdatedAt         time.Time `json:"updatedAt"`

	// stored as raw JSON; DecodeSubRecords is the only place it is parsed
	Academic     SubRecordPayload `json:"-"`
	Professional SubRecordPayload `json:"-"`
	Family       SubRecordPayload `json:"-"`
}

func (a *Application) AcademicHistory() ([]AcademicEntry, error) {
	return DecodeSubRecords[AcademicEntry](a.Academic)
}

func (a *Application) ProfessionalHistory() ([]ProfessionalEntry, error) {
	return DecodeSubRecords[ProfessionalEntry](a.Professional)
}

func (a *Application) FamilyDetails() ([]FamilyMember, error) {
	return DecodeSubRecords[FamilyMember](a.Family)
}

// IsAssignedTo reports whether accountID owns this application.
func (a *Application) IsAssignedTo(accountID int64) bool {
	return a.AssignedHODID != nil && *a.AssignedHODID == accountID
}

type ApplicationFilter struct {
	Status        *Status
	Department    string
	From          *time.Time
	To            *time.Time
	AssignedHODID *int64
	// Ascending orders oldest-first (export); dashboards use the newest-first default.
	Ascending bool
}

type DepartmentStat struct {
	Department string `json:"department"`
	Status     Status `json:"status"`
	Count      int    `json:"count"`
}
