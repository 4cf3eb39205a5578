package db

import "time"

// Resource is a single discoverable item returned by an extension. The store
// never owns resources; it only remembers how the user interacted with them.
type Resource struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	URL         string   `json:"url"`
	Type        string   `json:"type"` // "PDF", "Book", "Web Article", ...
	CoverURL    string   `json:"cover_url,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

type Bookmark struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	Type        string    `json:"type"`
	CoverURL    string    `json:"cover_url,omitempty"`
	Description string    `json:"description,omitempty"`
	AddedAt     time.Time `json:"added_at"`
}

// ExtensionInfo is the registration record for an installed extension.
type ExtensionInfo struct {
	Name        string    `json:"name"`
	Version     string    `json:"version"`
	Author      string    `json:"author"`
	Description string    `json:"description"`
	Enabled     bool      `json:"enabled"`
	InstalledAt time.Time `json:"installed_at"`
}

// SyncSettings drives the extension-level staleness decision, independent of
// any individual cached query's own expiry.
type SyncSettings struct {
	Extension  string    `json:"extension"`
	Enabled    bool      `json:"cache_enabled"`
	MaxResults int       `json:"cache_max_results"`
	TTLHours   int       `json:"cache_ttl_hours"`
	LastSync   time.Time `json:"last_sync,omitempty"`
}

// Library item statuses.
const (
	StatusUnread    = "unread"
	StatusReading   = "reading"
	StatusCompleted = "completed"
)

type LibraryItem struct {
	ID          int64     `json:"id"`
	SourceID    string    `json:"source_id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Extension   string    `json:"extension"`
	Status      string    `json:"status"`
	Progress    int       `json:"progress_percent"`
	AddedAt     time.Time `json:"added_at"`
	StartedAt   time.Time `json:"started_at,omitempty"`
	CompletedAt time.Time `json:"completed_at,omitempty"`
	Notes       string    `json:"notes,omitempty"`
}

// ReadingStats is always renderable: a failed query yields the zero value.
type ReadingStats struct {
	Total       int     `json:"total_items"`
	Reading     int     `json:"currently_reading"`
	Completed   int     `json:"completed"`
	Unread      int     `json:"unread"`
	AvgProgress float64 `json:"avg_progress"`
}

type Download struct {
	ID           int64     `json:"id"`
	SourceID     string    `json:"source_id"`
	Title        string    `json:"title"`
	FilePath     string    `json:"file_path"`
	Extension    string    `json:"extension"`
	DownloadedAt time.Time `json:"downloaded_at"`
	FileSize     int64     `json:"file_size"`
	Status       string    `json:"status"`
}

// Project resource statuses.
const (
	ResourceToRead      = "to_read"
	ResourceReading     = "reading"
	ResourceSynthesized = "synthesized"
)

type Project struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ProjectResource struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"project_id"`
	URL       string    `json:"resource_url"`
	Title     string    `json:"resource_title"`
	Status    string    `json:"status"`
	AddedAt   time.Time `json:"added_at"`
}

type Tag struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type Annotation struct {
	ID        int64     `json:"id"`
	URL       string    `json:"resource_url"`
	Note      string    `json:"note_text"`
	Highlight string    `json:"highlight_text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
