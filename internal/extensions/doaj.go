package extensions

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/user/knowdock/internal/db"
)

// DOAJ searches the Directory of Open Access Journals.
type DOAJ struct{}

func NewDOAJ() *DOAJ {
	return &DOAJ{}
}

func (d *DOAJ) Info() Info {
	return Info{
		Name:        "doaj",
		Version:     "2.0.0",
		Author:      "Knowdock",
		Description: "Open access peer-reviewed journals and articles",
	}
}

const doajAPI = "https://doaj.org/api/search/articles"

func (d *DOAJ) Search(ctx context.Context, query string, limit int) ([]db.Resource, error) {
	if limit > 50 {
		limit = 50
	}
	endpoint := fmt.Sprintf("%s/%s?pageSize=%d", doajAPI, url.PathEscape(query), limit)

	resp, err := get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("doaj: unexpected status %s", resp.Status)
	}

	var payload struct {
		Results []struct {
			ID      string `json:"id"`
			Bibjson struct {
				Title  string `json:"title"`
				Author []struct {
					Name string `json:"name"`
				} `json:"author"`
				Abstract string `json:"abstract"`
				Link     []struct {
					Type string `json:"type"`
					URL  string `json:"url"`
				} `json:"link"`
			} `json:"bibjson"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("doaj: decode response: %w", err)
	}

	resources := make([]db.Resource, 0, len(payload.Results))
	for _, article := range payload.Results {
		if len(resources) >= limit {
			break
		}
		bib := article.Bibjson

		author := "Unknown"
		if len(bib.Author) > 0 {
			author = bib.Author[0].Name
		}

		// Prefer the fulltext link, then any link, then the DOAJ page.
		articleURL := ""
		for _, link := range bib.Link {
			if link.Type == "fulltext" {
				articleURL = link.URL
				break
			}
		}
		if articleURL == "" && len(bib.Link) > 0 {
			articleURL = bib.Link[0].URL
		}
		if articleURL == "" {
			articleURL = "https://doaj.org/article/" + article.ID
		}

		description := bib.Abstract
		if description == "" {
			description = "No abstract available"
		}
		if len(description) > 500 {
			description = description[:500]
		}

		resources = append(resources, db.Resource{
			ID:          article.ID,
			Title:       bib.Title,
			Author:      author,
			URL:         articleURL,
			Type:        "Journal Article",
			Description: description,
			Tags:        []string{"Journal", "Open Access", "DOAJ"},
		})
	}
	return resources, nil
}

// Trending returns recent articles across broad subjects; DOAJ has no
// dedicated popularity endpoint.
func (d *DOAJ) Trending(ctx context.Context, limit int) ([]db.Resource, error) {
	return d.Search(ctx, "science OR medicine OR technology", limit)
}

func (d *DOAJ) Categories() []string {
	return []string{"Science", "Medicine", "Social Sciences", "Arts", "Humanities", "Engineering"}
}
