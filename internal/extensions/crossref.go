package extensions

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/user/knowdock/internal/db"
)

// Crossref queries citation metadata for academic works by DOI.
type Crossref struct{}

func NewCrossref() *Crossref {
	return &Crossref{}
}

func (c *Crossref) Info() Info {
	return Info{
		Name:        "crossref",
		Version:     "1.0.0",
		Author:      "Knowdock",
		Description: "Metadata for millions of academic research papers via DOI",
	}
}

const crossrefAPI = "https://api.crossref.org/works"

func (c *Crossref) Search(ctx context.Context, query string, limit int) ([]db.Resource, error) {
	if limit > 50 {
		limit = 50
	}
	params := url.Values{
		"query":  {query},
		"rows":   {fmt.Sprint(limit)},
		"select": {"DOI,title,author,URL,abstract,type,publisher"},
	}

	resp, err := get(ctx, crossrefAPI+"?"+params.Encode())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("crossref: unexpected status %s", resp.Status)
	}

	var payload struct {
		Message struct {
			Items []struct {
				DOI    string   `json:"DOI"`
				Title  []string `json:"title"`
				Author []struct {
					Given  string `json:"given"`
					Family string `json:"family"`
				} `json:"author"`
				URL       string `json:"URL"`
				Abstract  string `json:"abstract"`
				Type      string `json:"type"`
				Publisher string `json:"publisher"`
			} `json:"items"`
		} `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("crossref: decode response: %w", err)
	}

	resources := make([]db.Resource, 0, len(payload.Message.Items))
	for _, item := range payload.Message.Items {
		if len(resources) >= limit {
			break
		}
		title := "Unknown"
		if len(item.Title) > 0 {
			title = item.Title[0]
		}
		author := "Unknown"
		if len(item.Author) > 0 {
			author = strings.TrimSpace(item.Author[0].Given + " " + item.Author[0].Family)
		}
		tags := []string{"Research", "Crossref"}
		if item.Publisher != "" {
			tags = append(tags, item.Publisher)
		}
		resources = append(resources, db.Resource{
			ID:          item.DOI,
			Title:       title,
			Author:      author,
			URL:         item.URL,
			Type:        titleCase(strings.ReplaceAll(item.Type, "-", " ")),
			Description: cleanAbstract(item.Abstract),
			Tags:        tags,
		})
	}
	return resources, nil
}

// cleanAbstract strips the JATS markup Crossref embeds in abstracts.
func cleanAbstract(abstract string) string {
	if abstract == "" {
		return "No abstract available"
	}
	for _, tag := range []string{"<jats:p>", "</jats:p>", "<jats:sec>", "</jats:sec>", "<jats:title>", "</jats:title>"} {
		abstract = strings.ReplaceAll(abstract, tag, "")
	}
	abstract = strings.TrimSpace(abstract)
	if len(abstract) > 500 {
		abstract = abstract[:500] + "..."
	}
	return abstract
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

// Trending uses recent AI papers as a placeholder; Crossref has no
// popularity endpoint.
func (c *Crossref) Trending(ctx context.Context, limit int) ([]db.Resource, error) {
	return c.Search(ctx, "artificial intelligence", limit)
}

func (c *Crossref) Categories() []string {
	return []string{"Journal Article", "Book Chapter", "Proceedings", "Dataset", "Preprint"}
}
