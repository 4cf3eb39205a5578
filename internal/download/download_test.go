package download

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/knowdock/internal/db"
)

func newTestManager(t *testing.T) (*Manager, *db.Store) {
	t.Helper()
	store, err := db.NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	mgr, err := NewManager(store, filepath.Join(t.TempDir(), "downloads"))
	require.NoError(t, err)
	return mgr, store
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"plain.pdf", "plain.pdf"},
		{`a<b>c:d"e/f\g|h?i*j.pdf`, "a_b_c_d_e_f_g_h_i_j.pdf"},
		{"no extension", "no extension"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, SanitizeFilename(tc.in))
	}
}

func TestSanitizeFilenameTruncatesKeepingExtension(t *testing.T) {
	long := strings.Repeat("x", 250) + ".epub"

	got := SanitizeFilename(long)

	assert.LessOrEqual(t, len(got), 200)
	assert.True(t, strings.HasSuffix(got, ".epub"))
	assert.Equal(t, strings.Repeat("x", 195)+".epub", got)
}

func TestFetchWritesFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("file body"))
	}))
	defer srv.Close()

	mgr, _ := newTestManager(t)

	path, err := mgr.Fetch(context.Background(), srv.URL+"/paper.pdf", "paper.pdf", nil)
	require.NoError(t, err)

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "file body", string(body))
}

func TestFetchSkipsExistingFile(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte("file body"))
	}))
	defer srv.Close()

	mgr, _ := newTestManager(t)

	first, err := mgr.Fetch(context.Background(), srv.URL, "book.epub", nil)
	require.NoError(t, err)
	second, err := mgr.Fetch(context.Background(), srv.URL, "book.epub", nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, hits, "an existing file must not be re-downloaded")
}

func TestFetchRejectsInvalidURL(t *testing.T) {
	mgr, _ := newTestManager(t)

	_, err := mgr.Fetch(context.Background(), "ftp://example.com/file", "f", nil)
	assert.Error(t, err)
}

func TestFetchLeavesNoFileOnHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	mgr, _ := newTestManager(t)

	_, err := mgr.Fetch(context.Background(), srv.URL, "missing.pdf", nil)
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(mgr.Dir(), "missing.pdf"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestFetchProgressCallback(t *testing.T) {
	body := strings.Repeat("a", 64*1024)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", fmt.Sprint(len(body)))
		w.Write([]byte(body))
	}))
	defer srv.Close()

	mgr, _ := newTestManager(t)

	var last float64
	_, err := mgr.Fetch(context.Background(), srv.URL, "big.txt", func(percent float64) {
		last = percent
	})
	require.NoError(t, err)
	assert.InDelta(t, 100.0, last, 0.01)
}

func TestFetchSurvivesPanickingProgressCallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("file body"))
	}))
	defer srv.Close()

	mgr, _ := newTestManager(t)

	path, err := mgr.Fetch(context.Background(), srv.URL, "fragile.txt", func(float64) {
		panic("ui went away")
	})
	require.NoError(t, err)

	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
}

func TestFetchAndRecordAddsDownloadRow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pdf bytes"))
	}))
	defer srv.Close()

	mgr, store := newTestManager(t)

	path, err := mgr.FetchAndRecord(context.Background(), srv.URL, "2301.00001.pdf", "2301.00001", "Some Paper", "arxiv", nil)
	require.NoError(t, err)

	downloads, err := store.Downloads()
	require.NoError(t, err)
	require.Len(t, downloads, 1)
	assert.Equal(t, "2301.00001", downloads[0].SourceID)
	assert.Equal(t, path, downloads[0].FilePath)
	assert.Equal(t, int64(len("pdf bytes")), downloads[0].FileSize)
	assert.Equal(t, "completed", downloads[0].Status)
}

func TestFetchAndRecordToleratesExistingRow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pdf bytes"))
	}))
	defer srv.Close()

	mgr, store := newTestManager(t)

	_, err := mgr.FetchAndRecord(context.Background(), srv.URL, "dup.pdf", "dup", "Dup", "arxiv", nil)
	require.NoError(t, err)
	_, err = mgr.FetchAndRecord(context.Background(), srv.URL, "dup.pdf", "dup", "Dup", "arxiv", nil)
	require.NoError(t, err)

	downloads, err := store.Downloads()
	require.NoError(t, err)
	assert.Len(t, downloads, 1)
}
