package export

import (
	"log/slog"
	"sort"

	"github.com/accord-hospitals/interview-portal/backend/internal/domain"
)

const (
	SheetApplications = "Applications"
	SheetAcademic     = "Academic"
	SheetProfessional = "Professional"
	SheetFamily       = "Family"
)

const timestampLayout = "2006-01-02 15:04:05"

type Sheet struct {
	Name   string
	Header []string
	Rows   [][]any
}

// Resume is a stored artifact referenced by an exported application.
type Resume struct {
	ApplicationID int64
	Ref           string
	Name          string
}

// Bundle is the tabular form of a set of applications. Rows of the three
// sub-record sheets carry the owning application id in their first column.
type Bundle struct {
	Applications Sheet
	Academic     Sheet
	Professional Sheet
	Family       Sheet
	Resumes      []Resume
}

func (b *Bundle) Sheets() []*Sheet {
	return []*Sheet{&b.Applications, &b.Academic, &b.Professional, &b.Family}
}

func newBundle() *Bundle {
	return &Bundle{
		Applications: Sheet{
			Name: SheetApplications,
			Header: []string{
				"Application ID", "Name", "Email", "Date of Birth", "Contact",
				"Current Address", "Permanent Address", "Position", "Department",
				"Experience", "Notice Period", "Last Salary", "Expected Salary",
				"Reference Name", "Reference Contact", "Other Details", "Resume",
				"Status", "Assigned HOD ID", "Assigned HOD", "HOD Remarks", "Submitted At",
			},
		},
		Academic: Sheet{
			Name:   SheetAcademic,
			Header: []string{"Application ID", "Qualification", "Institution", "Board", "Year of Passing", "Score"},
		},
		Professional: Sheet{
			Name:   SheetProfessional,
			Header: []string{"Application ID", "Organization", "Designation", "From", "To", "Last Salary", "Reason for Leaving"},
		},
		Family: Sheet{
			Name:   SheetFamily,
			Header: []string{"Application ID", "Name", "Relationship", "Occupation", "Other"},
		},
	}
}

// Project flattens records into the four export sheets, oldest submission
// first. hodNames resolves assigned HOD ids to display names. A record whose
// sub-records cannot be decoded still gets its application row; only the
// broken collection is left out.
func Project(records []*domain.Application, hodNames map[int64]string, filter *Filter) *Bundle {
	selected := make([]*domain.Application, 0, len(records))
	for _, app := range records {
		if filter == nil || filter.Match(app) {
			selected = append(selected, app)
		}
	}
	sort.SliceStable(selected, func(i, j int) bool {
		if selected[i].SubmittedAt.Equal(selected[j].SubmittedAt) {
			return selected[i].ID < selected[j].ID
		}
		return selected[i].SubmittedAt.Before(selected[j].SubmittedAt)
	})

	b := newBundle()
	for _, app := range selected {
		b.Applications.Rows = append(b.Applications.Rows, applicationRow(app, hodNames))

		if app.ResumeRef != "" {
			b.Resumes = append(b.Resumes, Resume{ApplicationID: app.ID, Ref: app.ResumeRef, Name: app.ResumeName})
		}

		if entries, err := app.AcademicHistory(); err != nil {
			logMalformed(app, domain.SubRecordAcademic, err)
		} else {
			for _, e := range entries {
				b.Academic.Rows = append(b.Academic.Rows, []any{app.ID, e.Qualification, e.Institution, e.Board, e.YearOfPassing, e.Score})
			}
		}

		if entries, err := app.ProfessionalHistory(); err != nil {
			logMalformed(app, domain.SubRecordProfessional, err)
		} else {
			for _, e := range entries {
				b.Professional.Rows = append(b.Professional.Rows, []any{app.ID, e.Organization, e.Designation, e.From, e.To, e.LastSalary, e.ReasonForLeaving})
			}
		}

		if members, err := app.FamilyDetails(); err != nil {
			logMalformed(app, domain.SubRecordFamily, err)
		} else {
			for _, m := range members {
				b.Family.Rows = append(b.Family.Rows, []any{app.ID, m.Name, m.Relationship, m.Occupation, m.Other})
			}
		}
	}

	return b
}

func applicationRow(app *domain.Application, hodNames map[int64]string) []any {
	var hodID any = ""
	hodName := ""
	if app.AssignedHODID != nil {
		hodID = *app.AssignedHODID
		hodName = hodNames[*app.AssignedHODID]
	}

	return []any{
		app.ID, app.Name, app.Email, app.DateOfBirth, app.Contact,
		app.CurrentAddress, app.PermanentAddress, app.Position, app.Department,
		app.ExperienceSummary, app.NoticePeriod, app.LastSalary, app.ExpectedSalary,
		app.ReferenceName, app.ReferenceContact, app.OtherDetails, app.ResumeName,
		string(app.Status), hodID, hodName, app.HODRemarks, app.SubmittedAt.Format(timestampLayout),
	}
}

func logMalformed(app *domain.Application, kind domain.SubRecordKind, err error) {
	slog.Warn("skipping malformed sub-records in export",
		"application_id", app.ID,
		"kind", kind,
		"error", err,
	)
}
