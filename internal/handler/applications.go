package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/accord-hospitals/interview-portal/backend/internal/domain"
	"github.com/accord-hospitals/interview-portal/backend/internal/service"
)

// multipart overhead allowed on top of the resume size limit
const formOverhead = 1 << 20

func (h *Handler) SubmitApplication(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.config.Upload.MaxBytes+formOverhead)
	if err := r.ParseMultipartForm(formOverhead); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.serviceError(w, r, domain.ErrPayloadTooLarge)
			return
		}
		h.errorResponse(w, r, http.StatusBadRequest, "invalid form data")
		return
	}
	defer r.MultipartForm.RemoveAll()

	in := service.SubmissionInput{
		Name:              r.FormValue("name"),
		Email:             r.FormValue("email"),
		DateOfBirth:       r.FormValue("dateOfBirth"),
		Contact:           r.FormValue("contact"),
		CurrentAddress:    r.FormValue("currentAddress"),
		PermanentAddress:  r.FormValue("permanentAddress"),
		Position:          r.FormValue("position"),
		Department:        r.FormValue("department"),
		ExperienceSummary: r.FormValue("experienceSummary"),
		NoticePeriod:      r.FormValue("noticePeriod"),
		LastSalary:        r.FormValue("lastSalary"),
		ExpectedSalary:    r.FormValue("expectedSalary"),
		ReferenceName:     r.FormValue("referenceName"),
		ReferenceContact:  r.FormValue("referenceContact"),
		OtherDetails:      r.FormValue("otherDetails"),
	}

	decodeFormJSON(r, "academicDetails", &in.Academic, &in)
	decodeFormJSON(r, "professionalDetails", &in.Professional, &in)
	decodeFormJSON(r, "familyDetails", &in.Family, &in)

	resume, err := h.storeResume(r)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	app, err := h.applications.Submit(r.Context(), in, resume)
	if err != nil {
		if resume != nil {
			if delErr := h.artifacts.Delete(resume.Ref); delErr != nil {
				slog.Error("failed to remove orphaned resume", "ref", resume.Ref, "error", delErr)
			}
		}
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "application submitted", app)
}

// decodeFormJSON reads a sub-record list sent as a JSON form field. A bad
// value is rejected on the input so the service reports it with the rest.
func decodeFormJSON(r *http.Request, field string, dst any, in *service.SubmissionInput) {
	raw := r.FormValue(field)
	if raw == "" {
		return
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		in.Reject(field, "must be a JSON list")
	}
}

// storeResume saves the optional "resume" file part.
func (h *Handler) storeResume(r *http.Request) (*service.Artifact, error) {
	file, header, err := r.FormFile("resume")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if header.Size > h.config.Upload.MaxBytes {
		return nil, domain.ErrPayloadTooLarge
	}

	ref, contentType, err := h.artifacts.Store(file, header.Filename)
	if err != nil {
		return nil, err
	}

	return &service.Artifact{Ref: ref, Name: header.Filename, ContentType: contentType}, nil
}

// ListApplications accepts optional ?status=, ?department=, ?from= and ?to=
// (YYYY-MM-DD) filters.
func (h *Handler) ListApplications(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.ApplicationFilter{Department: q.Get("department")}

	if v := q.Get("status"); v != "" {
		status := domain.Status(v)
		if !status.Valid() {
			h.errorResponse(w, r, http.StatusBadRequest, "invalid status")
			return
		}
		filter.Status = &status
	}

	for _, bound := range []struct {
		name string
		dst  **time.Time
		end  bool
	}{{"from", &filter.From, false}, {"to", &filter.To, true}} {
		v := q.Get(bound.name)
		if v == "" {
			continue
		}
		t, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			h.errorResponse(w, r, http.StatusBadRequest, fmt.Sprintf("invalid %s date", bound.name))
			return
		}
		if bound.end {
			t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		*bound.dst = &t
	}

	apps, err := h.applications.ListForActor(r.Context(), actorFrom(r), filter)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "applications loaded", apps)
}

// applicationDetail is an application with its decoded sub-records. A
// malformed collection is shown as empty.
type applicationDetail struct {
	*domain.Application
	AcademicDetails     []domain.AcademicEntry     `json:"academicDetails"`
	ProfessionalDetails []domain.ProfessionalEntry `json:"professionalDetails"`
	FamilyDetails       []domain.FamilyMember      `json:"familyDetails"`
}

func (h *Handler) GetApplication(w http.ResponseWriter, r *http.Request) {
	app := r.Context().Value(ApplicationCtx).(*domain.Application)

	detail := applicationDetail{Application: app}
	var err error
	if detail.AcademicDetails, err = app.AcademicHistory(); err != nil {
		slog.Warn("malformed academic details", "application_id", app.ID, "error", err)
	}
	if detail.ProfessionalDetails, err = app.ProfessionalHistory(); err != nil {
		slog.Warn("malformed professional details", "application_id", app.ID, "error", err)
	}
	if detail.FamilyDetails, err = app.FamilyDetails(); err != nil {
		slog.Warn("malformed family details", "application_id", app.ID, "error", err)
	}

	h.successResponse(w, r, "application loaded", detail)
}

func (h *Handler) DownloadResume(w http.ResponseWriter, r *http.Request) {
	app := r.Context().Value(ApplicationCtx).(*domain.Application)
	if app.ResumeRef == "" {
		h.errorResponse(w, r, http.StatusNotFound, "no resume uploaded")
		return
	}

	rc, err := h.artifacts.Open(app.ResumeRef)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	defer rc.Close()

	name := app.ResumeName
	if name == "" {
		name = app.ResumeRef
	}
	contentType := app.ResumeContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	if _, err := io.Copy(w, rc); err != nil {
		slog.Error("failed to stream resume", "application_id", app.ID, "error", err)
	}
}

func (h *Handler) AssignApplication(w http.ResponseWriter, r *http.Request) {
	app := r.Context().Value(ApplicationCtx).(*domain.Application)

	var req struct {
		HODID int64 `json:"hodId" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	updated, err := h.applications.Assign(r.Context(), actorFrom(r), app.ID, req.HODID)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "application assigned", updated)
}

func (h *Handler) RecordOutcome(w http.ResponseWriter, r *http.Request) {
	app := r.Context().Value(ApplicationCtx).(*domain.Application)

	var req struct {
		Status  string `json:"status" validate:"required"`
		Remarks string `json:"remarks" validate:"max=2000"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	updated, err := h.applications.RecordOutcome(r.Context(), actorFrom(r), app.ID, domain.Status(req.Status), req.Remarks)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "outcome recorded", updated)
}

func (h *Handler) GetDepartmentStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.applications.DepartmentStats(r.Context(), actorFrom(r))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "statistics loaded", stats)
}
