package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/accord-hospitals/interview-portal/backend/internal/domain"
	"github.com/accord-hospitals/interview-portal/backend/internal/service"
)

// Submitter is implemented by service.ApplicationService.
type Submitter interface {
	Submit(ctx context.Context, in service.SubmissionInput, resume *service.Artifact) (*domain.Application, error)
}

// columns maps CSV headers, compared case-insensitively, onto form fields.
var columns = map[string]func(in *service.SubmissionInput, v string){
	"name":              func(in *service.SubmissionInput, v string) { in.Name = v },
	"email":             func(in *service.SubmissionInput, v string) { in.Email = v },
	"date of birth":     func(in *service.SubmissionInput, v string) { in.DateOfBirth = v },
	"contact":           func(in *service.SubmissionInput, v string) { in.Contact = v },
	"current address":   func(in *service.SubmissionInput, v string) { in.CurrentAddress = v },
	"permanent address": func(in *service.SubmissionInput, v string) { in.PermanentAddress = v },
	"position":          func(in *service.SubmissionInput, v string) { in.Position = v },
	"department":        func(in *service.SubmissionInput, v string) { in.Department = v },
	"experience":        func(in *service.SubmissionInput, v string) { in.ExperienceSummary = v },
	"notice period":     func(in *service.SubmissionInput, v string) { in.NoticePeriod = v },
	"last salary":       func(in *service.SubmissionInput, v string) { in.LastSalary = v },
	"expected salary":   func(in *service.SubmissionInput, v string) { in.ExpectedSalary = v },
	"reference name":    func(in *service.SubmissionInput, v string) { in.ReferenceName = v },
	"reference contact": func(in *service.SubmissionInput, v string) { in.ReferenceContact = v },
	"other details":     func(in *service.SubmissionInput, v string) { in.OtherDetails = v },
}

// ImportCandidates submits one application per CSV row through the normal
// submission path. Rows that fail validation or clash with an existing
// candidate are logged and skipped.
func ImportCandidates(ctx context.Context, s Submitter, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read header: %w", err)
	}

	setters := make([]func(in *service.SubmissionInput, v string), len(headers))
	known := 0
	for i, h := range headers {
		if set, ok := columns[strings.ToLower(strings.TrimSpace(h))]; ok {
			setters[i] = set
			known++
		}
	}
	if known == 0 {
		return 0, errors.New("no known columns in header")
	}

	imported := 0
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read line %d: %w", line, err)
		}

		in := service.SubmissionInput{}
		for i, v := range row {
			if i < len(setters) && setters[i] != nil {
				setters[i](&in, v)
			}
		}

		app, err := s.Submit(ctx, in, nil)
		if err != nil {
			slog.Error("skipping candidate", "line", line, "name", in.Name, "error", err)
			continue
		}
		slog.Debug("candidate imported", "line", line, "application_id", app.ID)
		imported++
	}

	return imported, nil
}
