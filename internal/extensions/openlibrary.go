package extensions

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/user/knowdock/internal/db"
)

// OpenLibrary searches the Open Library book catalog.
type OpenLibrary struct{}

func NewOpenLibrary() *OpenLibrary {
	return &OpenLibrary{}
}

func (o *OpenLibrary) Info() Info {
	return Info{
		Name:        "openlibrary",
		Version:     "2.0.0",
		Author:      "Knowdock",
		Description: "Millions of books from the free and open Open Library catalog",
	}
}

const openLibraryAPI = "https://openlibrary.org/search.json"

type openLibraryDoc struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	AuthorName       []string `json:"author_name"`
	CoverID          int      `json:"cover_i"`
	FirstPublishYear int      `json:"first_publish_year"`
	EditionCount     int      `json:"edition_count"`
}

func (o *OpenLibrary) Search(ctx context.Context, query string, limit int) ([]db.Resource, error) {
	if limit > 100 {
		limit = 100
	}
	params := url.Values{
		"title": {query},
		"limit": {fmt.Sprint(limit)},
	}
	return o.query(ctx, params, limit, func(doc openLibraryDoc) string {
		return fmt.Sprintf("Published: %d | Editions: %d", doc.FirstPublishYear, doc.EditionCount)
	})
}

// Trending lists books filed under the "popular" subject.
func (o *OpenLibrary) Trending(ctx context.Context, limit int) ([]db.Resource, error) {
	if limit > 100 {
		limit = 100
	}
	params := url.Values{
		"subject": {"popular"},
		"limit":   {fmt.Sprint(limit)},
	}
	return o.query(ctx, params, limit, func(doc openLibraryDoc) string {
		return fmt.Sprintf("Popular book | Editions: %d", doc.EditionCount)
	})
}

func (o *OpenLibrary) query(ctx context.Context, params url.Values, limit int, describe func(openLibraryDoc) string) ([]db.Resource, error) {
	resp, err := get(ctx, openLibraryAPI+"?"+params.Encode())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("openlibrary: unexpected status %s", resp.Status)
	}

	var payload struct {
		Docs []openLibraryDoc `json:"docs"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("openlibrary: decode response: %w", err)
	}

	resources := make([]db.Resource, 0, len(payload.Docs))
	for _, doc := range payload.Docs {
		if len(resources) >= limit {
			break
		}
		author := "Unknown"
		if len(doc.AuthorName) > 0 {
			author = doc.AuthorName[0]
		}
		coverURL := ""
		if doc.CoverID != 0 {
			coverURL = fmt.Sprintf("https://covers.openlibrary.org/b/id/%d-M.jpg", doc.CoverID)
		}
		resources = append(resources, db.Resource{
			ID:          doc.Key,
			Title:       doc.Title,
			Author:      author,
			URL:         "https://openlibrary.org" + doc.Key,
			Type:        "Book",
			CoverURL:    coverURL,
			Description: describe(doc),
			Tags:        []string{"Book", "Open Library"},
		})
	}
	return resources, nil
}

func (o *OpenLibrary) Categories() []string {
	return []string{
		"Fiction",
		"Science Fiction",
		"Mystery",
		"Romance",
		"Science",
		"History",
		"Art",
		"Biography",
	}
}
