package extensions

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/user/knowdock/internal/db"
)

// Wikipedia searches the English Wikipedia through the MediaWiki action API.
type Wikipedia struct{}

func NewWikipedia() *Wikipedia {
	return &Wikipedia{}
}

func (w *Wikipedia) Info() Info {
	return Info{
		Name:        "wikipedia",
		Version:     "2.0.0",
		Author:      "Knowdock",
		Description: "Free encyclopedia with full article search",
	}
}

const wikipediaAPI = "https://en.wikipedia.org/w/api.php"

func (w *Wikipedia) Search(ctx context.Context, query string, limit int) ([]db.Resource, error) {
	if limit > 50 {
		limit = 50
	}
	params := url.Values{
		"action":   {"query"},
		"list":     {"search"},
		"srsearch": {query},
		"srwhat":   {"text"},
		"format":   {"json"},
		"srlimit":  {fmt.Sprint(limit)},
	}

	resp, err := get(ctx, wikipediaAPI+"?"+params.Encode())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("wikipedia: unexpected status %s", resp.Status)
	}

	var payload struct {
		Query struct {
			Search []struct {
				PageID  int    `json:"pageid"`
				Title   string `json:"title"`
				Snippet string `json:"snippet"`
			} `json:"search"`
		} `json:"query"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("wikipedia: decode response: %w", err)
	}

	resources := make([]db.Resource, 0, len(payload.Query.Search))
	for _, page := range payload.Query.Search {
		if len(resources) >= limit {
			break
		}
		snippet := strings.ReplaceAll(page.Snippet, `<span class="searchmatch">`, "")
		snippet = strings.ReplaceAll(snippet, "</span>", "")
		if len(snippet) > 300 {
			snippet = snippet[:300]
		}
		resources = append(resources, db.Resource{
			ID:          fmt.Sprint(page.PageID),
			Title:       page.Title,
			Author:      "Wikipedia Contributors",
			URL:         "https://en.wikipedia.org/wiki/" + strings.ReplaceAll(page.Title, " ", "_"),
			Type:        "Web Article",
			Description: snippet,
			Tags:        []string{"Article", "Wikipedia", "Encyclopedia"},
		})
	}
	return resources, nil
}

func (w *Wikipedia) ResourceByID(ctx context.Context, id string) (*db.Resource, error) {
	params := url.Values{
		"action":      {"query"},
		"pageids":     {id},
		"prop":        {"extracts|info"},
		"explaintext": {"1"},
		"inprop":      {"url"},
		"format":      {"json"},
	}

	resp, err := get(ctx, wikipediaAPI+"?"+params.Encode())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("wikipedia: unexpected status %s", resp.Status)
	}

	var payload struct {
		Query struct {
			Pages map[string]struct {
				Title        string `json:"title"`
				Extract      string `json:"extract"`
				CanonicalURL string `json:"canonicalurl"`
			} `json:"pages"`
		} `json:"query"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("wikipedia: decode response: %w", err)
	}

	for pageID, page := range payload.Query.Pages {
		if pageID == "-1" {
			continue
		}
		extract := page.Extract
		if len(extract) > 500 {
			extract = extract[:500]
		}
		pageURL := page.CanonicalURL
		if pageURL == "" {
			pageURL = "https://en.wikipedia.org"
		}
		return &db.Resource{
			ID:          pageID,
			Title:       page.Title,
			Author:      "Wikipedia Contributors",
			URL:         pageURL,
			Type:        "Web Article",
			Description: extract,
			Tags:        []string{"Article", "Wikipedia"},
		}, nil
	}
	return nil, db.ErrNotFound
}

// Trending serves a fixed list of popular topics. This is placeholder
// content, not a live popularity query.
func (w *Wikipedia) Trending(_ context.Context, limit int) ([]db.Resource, error) {
	popularTopics := []string{
		"Artificial Intelligence",
		"Machine Learning",
		"Climate Change",
		"COVID-19 Pandemic",
		"Space Exploration",
		"Quantum Computing",
		"Biology",
		"Physics",
		"Chemistry",
		"Technology",
	}
	if limit > len(popularTopics) {
		limit = len(popularTopics)
	}

	resources := make([]db.Resource, 0, limit)
	for i, topic := range popularTopics[:limit] {
		resources = append(resources, db.Resource{
			ID:          fmt.Sprintf("wiki_topic_%d", i),
			Title:       topic,
			Author:      "Wikipedia Contributors",
			URL:         "https://en.wikipedia.org/wiki/" + strings.ReplaceAll(topic, " ", "_"),
			Type:        "Web Article",
			Description: "Popular Wikipedia article about " + topic,
			Tags:        []string{"Article", "Wikipedia", "Trending"},
		})
	}
	return resources, nil
}

func (w *Wikipedia) Categories() []string {
	return []string{
		"Science",
		"Technology",
		"History",
		"Culture",
		"Geography",
		"Medicine",
		"Mathematics",
		"Philosophy",
	}
}
