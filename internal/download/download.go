package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/user/knowdock/internal/db"
)

// ProgressFunc receives download progress as a percentage in [0, 100]. It is
// only called when the server reports a content length. A panic inside the
// callback is swallowed; progress reporting must never abort a transfer.
type ProgressFunc func(percent float64)

// Manager downloads resource files into a local directory and records
// completed transfers in the store. Extensions only resolve what to fetch
// (see extensions.Downloader); the transfer itself happens here.
type Manager struct {
	store  *db.Store
	dir    string
	client *http.Client
}

// Some hosts refuse non-browser user agents for file downloads.
const browserUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func NewManager(store *db.Store, dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create downloads dir: %w", err)
	}
	return &Manager{
		store:  store,
		dir:    dir,
		client: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Dir returns the downloads directory.
func (m *Manager) Dir() string {
	return m.dir
}

// Fetch streams a URL into the downloads directory and returns the local
// path. If the file already exists the transfer is skipped and the existing
// path returned. A failed transfer leaves no partial file behind.
func (m *Manager) Fetch(ctx context.Context, rawURL, filename string, progress ProgressFunc) (string, error) {
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return "", fmt.Errorf("invalid url %q", rawURL)
	}

	if filename == "" {
		if parsed, err := url.Parse(rawURL); err == nil {
			filename = path.Base(parsed.Path)
		}
		if filename == "" || filename == "." || filename == "/" {
			filename = "download"
		}
	}
	filePath := filepath.Join(m.dir, SanitizeFilename(filename))

	if _, err := os.Stat(filePath); err == nil {
		slog.Info("file already downloaded", "path", filePath)
		return filePath, nil
	}

	slog.Info("starting download", "url", rawURL, "path", filePath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", browserUA)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml,application/pdf;q=0.9,image/webp,*/*;q=0.8")

	resp, err := m.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", rawURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return "", fmt.Errorf("download %s: unexpected status %s", rawURL, resp.Status)
	}

	out, err := os.Create(filePath)
	if err != nil {
		return "", err
	}

	_, err = io.Copy(out, &progressReader{
		r:        resp.Body,
		total:    resp.ContentLength,
		progress: progress,
	})
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(filePath)
		return "", fmt.Errorf("download %s: %w", rawURL, err)
	}

	slog.Info("download complete", "path", filePath)
	return filePath, nil
}

// FetchAndRecord downloads a resource file and records it as a completed
// download. A pre-existing record for the same path is not an error; the
// file on disk is the source of truth.
func (m *Manager) FetchAndRecord(ctx context.Context, rawURL, filename, sourceID, title, extension string, progress ProgressFunc) (string, error) {
	filePath, err := m.Fetch(ctx, rawURL, filename, progress)
	if err != nil {
		return "", err
	}

	var size int64
	if fi, err := os.Stat(filePath); err == nil {
		size = fi.Size()
	}
	if err := m.store.AddDownload(sourceID, title, filePath, extension, size); err != nil && !errors.Is(err, db.ErrDuplicate) {
		return "", fmt.Errorf("record download: %w", err)
	}
	return filePath, nil
}

// ArxivPDF downloads a paper's PDF by arXiv id.
func (m *Manager) ArxivPDF(ctx context.Context, arxivID, title string, progress ProgressFunc) (string, error) {
	if arxivID == "" {
		return "", fmt.Errorf("invalid arxiv id")
	}
	pdfURL := "https://arxiv.org/pdf/" + arxivID + ".pdf"
	return m.FetchAndRecord(ctx, pdfURL, arxivID+".pdf", arxivID, title, "arxiv", progress)
}

// GutenbergBook downloads a Project Gutenberg book in the requested format.
// Unknown formats fall back to epub.
func (m *Manager) GutenbergBook(ctx context.Context, bookID, format, title string, progress ProgressFunc) (string, error) {
	if bookID == "" {
		return "", fmt.Errorf("invalid gutenberg book id")
	}
	formats := map[string]string{
		"epub": fmt.Sprintf("https://www.gutendex.com/cache/epub/%s/pg%s.epub", bookID, bookID),
		"html": fmt.Sprintf("https://www.gutendex.com/cache/epub/%s/pg%s-h/pg%s-h.htm", bookID, bookID, bookID),
		"txt":  fmt.Sprintf("https://www.gutendex.com/cache/epub/%s/pg%s.txt", bookID, bookID),
	}
	bookURL, ok := formats[format]
	if !ok {
		format = "epub"
		bookURL = formats[format]
	}
	filename := fmt.Sprintf("gutenberg_%s.%s", bookID, format)
	return m.FetchAndRecord(ctx, bookURL, filename, bookID, title, "gutenberg", progress)
}

// WikipediaArticle downloads an article's export page for offline reading.
func (m *Manager) WikipediaArticle(ctx context.Context, title string, progress ProgressFunc) (string, error) {
	if title == "" {
		return "", fmt.Errorf("invalid article title")
	}
	exportURL := "https://en.wikipedia.org/wiki/Special:Export/" + url.PathEscape(title)
	filename := "wikipedia_" + strings.ReplaceAll(title, " ", "_") + ".html"
	return m.FetchAndRecord(ctx, exportURL, filename, title, title, "wikipedia", progress)
}

// SanitizeFilename replaces characters that are invalid on common filesystems
// with underscores and caps the length at 200, keeping the extension.
func SanitizeFilename(filename string) string {
	for _, c := range `<>:"/\|?*` {
		filename = strings.ReplaceAll(filename, string(c), "_")
	}
	if len(filename) > 200 {
		name, ext := filename, ""
		if i := strings.LastIndex(filename, "."); i >= 0 {
			name, ext = filename[:i], filename[i:]
		}
		if len(name) > 195 {
			name = name[:195]
		}
		filename = name + ext
	}
	return filename
}

// progressReader reports percentage progress as the body is consumed.
type progressReader struct {
	r        io.Reader
	total    int64
	read     int64
	progress ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.read += int64(n)
	if p.progress != nil && p.total > 0 {
		report(p.progress, float64(p.read)/float64(p.total)*100)
	}
	return n, err
}

func report(progress ProgressFunc, percent float64) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("progress callback panicked", "recovered", r)
		}
	}()
	progress(percent)
}
