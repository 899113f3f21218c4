package export

import (
	"archive/zip"
	"fmt"
	"io"
	"log/slog"
	"path"
	"time"
)

// ArtifactOpener gives read access to stored resumes.
type ArtifactOpener interface {
	Open(ref string) (io.ReadCloser, error)
}

// WriteArchive writes a zip holding the workbook and every resume referenced
// by b under resumes/. Missing resumes are logged and skipped.
func WriteArchive(w io.Writer, b *Bundle, artifacts ArtifactOpener) error {
	zw := zip.NewWriter(w)

	wb, err := zw.CreateHeader(&zip.FileHeader{
		Name:     "applications.xlsx",
		Method:   zip.Deflate,
		Modified: time.Now(),
	})
	if err != nil {
		return err
	}
	if err := WriteXLSX(wb, b); err != nil {
		return err
	}

	for _, r := range b.Resumes {
		if err := addResume(zw, r, artifacts); err != nil {
			slog.Warn("skipping resume in archive",
				"application_id", r.ApplicationID,
				"ref", r.Ref,
				"error", err,
			)
		}
	}

	return zw.Close()
}

func addResume(zw *zip.Writer, r Resume, artifacts ArtifactOpener) error {
	rc, err := artifacts.Open(r.Ref)
	if err != nil {
		return err
	}
	defer rc.Close()

	entry, err := zw.Create(fmt.Sprintf("resumes/%d_%s", r.ApplicationID, path.Base(r.Ref)))
	if err != nil {
		return err
	}
	_, err = io.Copy(entry, rc)
	return err
}
