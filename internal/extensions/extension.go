package extensions

import (
	"context"
	"net/http"
	"time"

	"github.com/user/knowdock/internal/db"
)

// Info describes an extension for its registration record.
type Info struct {
	Name        string
	Version     string
	Author      string
	Description string
}

// Extension is the capability contract every source plugin implements.
type Extension interface {
	Info() Info
	// Search returns resources matching the query, at most limit of them.
	Search(ctx context.Context, query string, limit int) ([]db.Resource, error)
	// Categories returns the extension's browsable categories or genres.
	Categories() []string
	// Trending returns popular or recent resources.
	Trending(ctx context.Context, limit int) ([]db.Resource, error)
}

// ResourceGetter is the optional lookup-by-id capability.
type ResourceGetter interface {
	ResourceByID(ctx context.Context, id string) (*db.Resource, error)
}

// Downloader is the optional download capability: it resolves a resource id
// to a fetchable URL and a suggested filename. The transfer itself is the
// download manager's job.
type Downloader interface {
	DownloadTarget(id string) (url, filename string, err error)
}

// httpClient is shared by all bundled extensions.
var httpClient = &http.Client{Timeout: 10 * time.Second}

const userAgent = "Knowdock/1.0"

func get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	return httpClient.Do(req)
}
