package extensions

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/user/knowdock/internal/db"
)

// Result pairs a resource with the extension that produced it.
type Result struct {
	Extension string      `json:"extension"`
	Resource  db.Resource `json:"resource"`
}

// Registry holds the installed extensions and fans queries out to the
// enabled ones. Enabled/disabled state lives in the store so it survives
// restarts; a failing extension is logged and skipped, never fatal to the
// aggregate.
type Registry struct {
	store *db.Store
	exts  map[string]Extension
	order []string // registration order, for stable merging
}

func NewRegistry(store *db.Store) *Registry {
	return &Registry{
		store: store,
		exts:  make(map[string]Extension),
	}
}

// Register installs an extension and records it in the store. Re-registering
// the same name replaces the instance and refreshes the record.
func (r *Registry) Register(ext Extension) error {
	info := ext.Info()
	if _, ok := r.exts[info.Name]; !ok {
		r.order = append(r.order, info.Name)
	}
	r.exts[info.Name] = ext
	return r.store.RegisterExtension(info.Name, info.Version, info.Author, info.Description)
}

// Get returns an installed extension by name.
func (r *Registry) Get(name string) (Extension, bool) {
	ext, ok := r.exts[name]
	return ext, ok
}

// Enabled returns the installed extensions that participate in federated
// operations, in registration order.
func (r *Registry) Enabled() []Extension {
	var out []Extension
	for _, name := range r.order {
		if r.store.ExtensionEnabled(name) {
			out = append(out, r.exts[name])
		}
	}
	return out
}

// Search queries one extension, consulting the result cache first when the
// extension's settings allow it. A live result set is cached on the way out
// and stamps the extension's last_sync; cache write failures are logged,
// not returned.
func (r *Registry) Search(ctx context.Context, name, query string, limit int) ([]db.Resource, error) {
	ext, ok := r.exts[name]
	if !ok {
		return nil, db.ErrNotFound
	}

	ttl := db.DefaultTTLHours
	cacheEnabled := true
	if settings, err := r.store.SyncSettings(name); err == nil {
		cacheEnabled = settings.Enabled
		ttl = settings.TTLHours
		if settings.MaxResults > 0 && limit > settings.MaxResults {
			limit = settings.MaxResults
		}
	}

	if cacheEnabled {
		if payload, err := r.store.CachedResults(name, query); err == nil {
			var cached []db.Resource
			if err := json.Unmarshal([]byte(payload), &cached); err == nil {
				if len(cached) > limit {
					cached = cached[:limit]
				}
				return cached, nil
			}
			slog.Warn("discarding undecodable cache entry", "extension", name, "query", query)
		}
	}

	resources, err := ext.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	if cacheEnabled {
		if payload, err := json.Marshal(resources); err == nil {
			if err := r.store.CacheResults(name, query, string(payload), ttl); err != nil {
				slog.Warn("could not cache search results", "extension", name, "error", err)
			}
		}
	}
	if err := r.store.MarkSyncComplete(name); err != nil {
		slog.Warn("could not stamp sync time", "extension", name, "error", err)
	}

	return resources, nil
}

// SearchAll fans a query out to every enabled extension concurrently and
// merges the results in registration order, truncated to limit. One failing
// extension never aborts the aggregate: its error is logged and the rest
// proceed.
func (r *Registry) SearchAll(ctx context.Context, query string, limit int) []Result {
	return r.fanOut(ctx, limit, func(ctx context.Context, name string, per int) ([]db.Resource, error) {
		return r.Search(ctx, name, query, per)
	})
}

// SearchAllLive is SearchAll with the result cache bypassed: every enabled
// extension is queried upstream. Results are not cached on the way out.
func (r *Registry) SearchAllLive(ctx context.Context, query string, limit int) []Result {
	return r.fanOut(ctx, limit, func(ctx context.Context, name string, per int) ([]db.Resource, error) {
		return r.exts[name].Search(ctx, query, per)
	})
}

// TrendingAll gathers trending resources from every enabled extension.
// Trending is always live; only search results are cached.
func (r *Registry) TrendingAll(ctx context.Context, limit int) []Result {
	return r.fanOut(ctx, limit, func(ctx context.Context, name string, per int) ([]db.Resource, error) {
		return r.exts[name].Trending(ctx, per)
	})
}

func (r *Registry) fanOut(ctx context.Context, limit int, query func(ctx context.Context, name string, per int) ([]db.Resource, error)) []Result {
	enabled := r.Enabled()
	if len(enabled) == 0 {
		return nil
	}
	per := limit / len(enabled)
	if per < 1 {
		per = 1
	}

	var mu sync.Mutex
	byName := make(map[string][]db.Resource)

	g, ctx := errgroup.WithContext(ctx)
	for _, ext := range enabled {
		name := ext.Info().Name
		g.Go(func() error {
			resources, err := query(ctx, name, per)
			if err != nil {
				slog.Warn("extension query failed", "extension", name, "error", err)
				return nil
			}
			mu.Lock()
			byName[name] = resources
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	var results []Result
	for _, name := range r.order {
		for _, res := range byName[name] {
			results = append(results, Result{Extension: name, Resource: res})
		}
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}
