package storage_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accord-hospitals/interview-portal/backend/internal/domain"
	"github.com/accord-hospitals/interview-portal/backend/internal/storage"
)

func newStorage(t *testing.T, maxBytes int64) *storage.LocalStorage {
	t.Helper()
	ls, err := storage.NewLocalStorage(t.TempDir(), maxBytes)
	require.NoError(t, err)
	return ls
}

func TestStore_RoundTrip(t *testing.T) {
	ls := newStorage(t, 1024)
	content := "%PDF-1.4\n%test resume\n"

	ref, contentType, err := ls.Store(strings.NewReader(content), "Kumar CV.PDF")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(ref, ".pdf"))
	assert.Equal(t, "application/pdf", contentType)

	rc, err := ls.Open(ref)
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, content, string(got))
}

func TestStore_UniqueRefs(t *testing.T) {
	ls := newStorage(t, 1024)

	a, _, err := ls.Store(strings.NewReader("a"), "cv.docx")
	require.NoError(t, err)
	b, _, err := ls.Store(strings.NewReader("b"), "cv.docx")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestStore_RejectsUnsupportedType(t *testing.T) {
	ls := newStorage(t, 1024)

	for _, name := range []string{"cv.exe", "cv", "cv.pdf.txt"} {
		_, _, err := ls.Store(strings.NewReader("x"), name)
		assert.ErrorIs(t, err, domain.ErrUnsupportedArtifactType, name)
	}
}

func TestStore_RejectsOversizedPayload(t *testing.T) {
	ls := newStorage(t, 16)

	_, _, err := ls.Store(bytes.NewReader(make([]byte, 17)), "cv.pdf")
	require.ErrorIs(t, err, domain.ErrPayloadTooLarge)

	_, _, err = ls.Store(bytes.NewReader(make([]byte, 16)), "cv.pdf")
	require.NoError(t, err)
}

func TestDelete_Idempotent(t *testing.T) {
	ls := newStorage(t, 1024)

	ref, _, err := ls.Store(strings.NewReader("x"), "cv.doc")
	require.NoError(t, err)

	require.NoError(t, ls.Delete(ref))
	require.NoError(t, ls.Delete(ref))

	_, err = ls.Open(ref)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOpen_ConfinedToBaseDir(t *testing.T) {
	ls := newStorage(t, 1024)

	_, err := ls.Open("../etc/passwd")
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.Error(t, ls.Delete("../secret.pdf"))
}
