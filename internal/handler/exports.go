package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/accord-hospitals/interview-portal/backend/internal/export"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *Handler) ExportApplications(w http.ResponseWriter, r *http.Request) {
	h.writeExport(w, r, nil, false)
}

func (h *Handler) ExportArchive(w http.ResponseWriter, r *http.Request) {
	h.writeExport(w, r, nil, true)
}

// ExportFilteredApplications requires ?from= and ?to= (YYYY-MM-DD); ?status=
// is optional.
func (h *Handler) ExportFilteredApplications(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter, err := export.ParseFilter(q.Get("from"), q.Get("to"), q.Get("status"))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeExport(w, r, filter, false)
}

// writeExport renders into memory first so a failure still gets a JSON error.
func (h *Handler) writeExport(w http.ResponseWriter, r *http.Request, filter *export.Filter, withResumes bool) {
	bundle, err := h.exports.Build(r.Context(), actorFrom(r), filter)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	var buf bytes.Buffer
	name := "applications_" + time.Now().Format("20060102_150405")
	contentType := xlsxContentType
	if withResumes {
		name += ".zip"
		contentType = "application/zip"
		err = export.WriteArchive(&buf, bundle, h.artifacts)
	} else {
		name += ".xlsx"
		err = export.WriteXLSX(&buf, bundle)
	}
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", fmt.Sprint(buf.Len()))
	_, _ = buf.WriteTo(w)
}
