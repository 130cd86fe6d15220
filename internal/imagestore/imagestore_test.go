package imagestore

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ayoublby/full-store/internal/domain"
)

type upload struct {
	filename    string
	contentType string
	body        []byte
}

// buildHeaders runs the uploads through a real multipart encode/decode so the
// store sees the same FileHeader values gin hands it.
func buildHeaders(t *testing.T, uploads ...upload) []*multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, u := range uploads {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="images"; filename="%s"`, u.filename))
		h.Set("Content-Type", u.contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(u.body)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["images"]
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	return store
}

func TestSaveAllStoresUnderGeneratedNames(t *testing.T) {
	store := newTestStore(t)
	headers := buildHeaders(t,
		upload{"photo one.jpg", "image/jpeg", []byte("jpeg-bytes")},
		upload{"banner.PNG", "image/png", []byte("png-bytes")},
	)

	paths, err := store.SaveAll(headers)
	require.NoError(t, err)
	require.Len(t, paths, 2)

	pattern := regexp.MustCompile(`^/images/uploaded/\d+-[0-9a-f]+\.(jpg|png)$`)
	for _, p := range paths {
		assert.Regexp(t, pattern, p)
		assert.NotContains(t, p, "photo", "original filenames never leak")
	}
	assert.True(t, strings.HasSuffix(paths[0], ".jpg"))
	assert.True(t, strings.HasSuffix(paths[1], ".png"), "extension is lowercased")

	data, err := os.ReadFile(filepath.Join(store.Dir(), filepath.Base(paths[0])))
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), data)
}

func TestSaveAllEmptyBatch(t *testing.T) {
	store := newTestStore(t)

	_, err := store.SaveAll(nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSaveAllTooManyFiles(t *testing.T) {
	store := newTestStore(t)

	uploads := make([]upload, MaxFiles+1)
	for i := range uploads {
		uploads[i] = upload{fmt.Sprintf("p%d.jpg", i), "image/jpeg", []byte("x")}
	}

	_, err := store.SaveAll(buildHeaders(t, uploads...))
	assert.ErrorIs(t, err, domain.ErrUploadRejected)
	assertDirEmpty(t, store.Dir())
}

func TestSaveAllRejectsBadExtension(t *testing.T) {
	store := newTestStore(t)
	headers := buildHeaders(t,
		upload{"ok.jpg", "image/jpeg", []byte("x")},
		upload{"script.svg", "image/svg+xml", []byte("<svg/>")},
	)

	_, err := store.SaveAll(headers)
	assert.ErrorIs(t, err, domain.ErrUploadRejected)
	assertDirEmpty(t, store.Dir(), "one bad file rejects the whole batch")
}

func TestSaveAllRejectsMismatchedContentType(t *testing.T) {
	store := newTestStore(t)
	headers := buildHeaders(t,
		upload{"fake.png", "application/octet-stream", []byte("x")},
	)

	_, err := store.SaveAll(headers)
	assert.ErrorIs(t, err, domain.ErrUploadRejected)
}

func TestRemove(t *testing.T) {
	store := newTestStore(t)
	paths, err := store.SaveAll(buildHeaders(t,
		upload{"photo.jpg", "image/jpeg", []byte("x")},
	))
	require.NoError(t, err)

	require.NoError(t, store.Remove(paths[0]))
	assertDirEmpty(t, store.Dir())

	assert.NoError(t, store.Remove(paths[0]), "missing file counts as removed")
	assert.NoError(t, store.Remove("/images/products/static.jpg"), "foreign paths are ignored")
}

func TestRemoveIgnoresTraversal(t *testing.T) {
	store := newTestStore(t)

	outside := filepath.Join(filepath.Dir(store.Dir()), "victim.txt")
	require.NoError(t, os.WriteFile(outside, []byte("keep"), 0o644))

	require.NoError(t, store.Remove(PublicPrefix+"../victim.txt"))
	_, err := os.Stat(outside)
	assert.NoError(t, err, "files outside the store survive")
}

func assertDirEmpty(t *testing.T, dir string, msgAndArgs ...any) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, msgAndArgs...)
}
