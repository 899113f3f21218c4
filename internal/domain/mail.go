package domain

type TemplateID string

const (
	TemplateApplicationReceived TemplateID = "application_received"
	TemplateNewApplication      TemplateID = "new_application"
	TemplateHODRegistered       TemplateID = "hod_registered"
	TemplateHODApproved         TemplateID = "hod_approved"
	TemplateApplicationAssigned TemplateID = "application_assigned"
	TemplateOutcomeRecorded     TemplateID = "outcome_recorded"
)

// Notification is raised by a state change and handed to the dispatcher.
type Notification struct {
	Template TemplateID
	To       []string
	Cc       []string
	Data     any
}

// MailMessage is a rendered mail as it travels through the email queue.
type MailMessage struct {
	To      []string `json:"to"`
	Cc      []string `json:"cc,omitempty"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type ApplicationReceivedMailData struct {
	Name        string
	Position    string
	SubmittedAt string
}

type NewApplicationMailData struct {
	ApplicationID int64
	Name          string
	Position      string
	Department    string
}

type HODRegisteredMailData struct {
	FullName string
	Email    string
}

type HODApprovedMailData struct {
	FullName string
	Email    string
}

type ApplicationAssignedMailData struct {
	HODName       string
	ApplicationID int64
	Name          string
	Position      string
	Department    string
}

type OutcomeRecordedMailData struct {
	Name     string
	Position string
	Status   Status
	HODName  string
}
