package extensions

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"

	"github.com/user/knowdock/internal/db"
)

// Arxiv searches the arXiv preprint server through its Atom query API.
type Arxiv struct{}

func NewArxiv() *Arxiv {
	return &Arxiv{}
}

func (a *Arxiv) Info() Info {
	return Info{
		Name:        "arxiv",
		Version:     "2.0.0",
		Author:      "Knowdock",
		Description: "Research papers and preprints from arXiv",
	}
}

const arxivAPI = "http://export.arxiv.org/api/query"

type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID      string `xml:"id"`
	Title   string `xml:"title"`
	Summary string `xml:"summary"`
	Authors []struct {
		Name string `xml:"name"`
	} `xml:"author"`
}

func (a *Arxiv) Search(ctx context.Context, query string, limit int) ([]db.Resource, error) {
	if limit > 50 {
		limit = 50
	}
	params := url.Values{
		"search_query": {"all:" + query},
		"start":        {"0"},
		"max_results":  {fmt.Sprint(limit)},
		"sortBy":       {"relevance"},
		"sortOrder":    {"descending"},
	}
	return a.query(ctx, params, limit)
}

// Trending returns the most recently submitted papers.
func (a *Arxiv) Trending(ctx context.Context, limit int) ([]db.Resource, error) {
	if limit > 50 {
		limit = 50
	}
	params := url.Values{
		"search_query": {"all:"},
		"start":        {"0"},
		"max_results":  {fmt.Sprint(limit)},
		"sortBy":       {"submittedDate"},
		"sortOrder":    {"descending"},
	}
	return a.query(ctx, params, limit)
}

func (a *Arxiv) query(ctx context.Context, params url.Values, limit int) ([]db.Resource, error) {
	resp, err := get(ctx, arxivAPI+"?"+params.Encode())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("arxiv: unexpected status %s", resp.Status)
	}

	var feed atomFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("arxiv: decode feed: %w", err)
	}

	resources := make([]db.Resource, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		if len(resources) >= limit {
			break
		}
		resources = append(resources, entryToResource(entry))
	}
	return resources, nil
}

func entryToResource(entry atomEntry) db.Resource {
	// Entry ids look like http://arxiv.org/abs/2301.00001v1.
	id := entry.ID
	if i := strings.LastIndex(id, "/abs/"); i >= 0 {
		id = id[i+len("/abs/"):]
	}
	author := "Unknown"
	if len(entry.Authors) > 0 {
		author = entry.Authors[0].Name
	}
	description := strings.TrimSpace(entry.Summary)
	if len(description) > 500 {
		description = description[:500]
	}
	return db.Resource{
		ID:          id,
		Title:       strings.TrimSpace(entry.Title),
		Author:      author,
		URL:         "https://arxiv.org/abs/" + id,
		Type:        "PDF/Research Paper",
		Description: description,
		Tags:        []string{"Research", "Paper", "arXiv"},
	}
}

func (a *Arxiv) ResourceByID(ctx context.Context, id string) (*db.Resource, error) {
	params := url.Values{"id_list": {id}}
	resources, err := a.query(ctx, params, 1)
	if err != nil {
		return nil, err
	}
	if len(resources) == 0 {
		return nil, db.ErrNotFound
	}
	return &resources[0], nil
}

// DownloadTarget resolves a paper id to its PDF.
func (a *Arxiv) DownloadTarget(id string) (string, string, error) {
	if id == "" {
		return "", "", fmt.Errorf("arxiv: empty paper id")
	}
	return "https://arxiv.org/pdf/" + id + ".pdf", id + ".pdf", nil
}

func (a *Arxiv) Categories() []string {
	return []string{
		"Computer Science",
		"Physics",
		"Mathematics",
		"Quantitative Biology",
		"Quantitative Finance",
		"Statistics",
	}
}
