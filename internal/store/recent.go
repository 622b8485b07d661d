package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

const (
	// RecentSearchesKey is the single key holding the persisted list.
	RecentSearchesKey = "weatherApp_recentSearches"

	// MaxRecentSearches caps the persisted list.
	MaxRecentSearches = 5
)

// RecentSearches is the persisted, capped, deduplicated list of city searches.
// No method returns an error: storage failures are logged and absorbed.
type RecentSearches struct {
	mu  sync.Mutex // serializes read-modify-write of the key
	kv  KV
	now func() time.Time
}

// NewRecentSearches creates a store over kv. A nil now uses time.Now.
func NewRecentSearches(kv KV, now func() time.Time) *RecentSearches {
	if now == nil {
		now = time.Now
	}
	return &RecentSearches{kv: kv, now: now}
}

// List returns the saved searches, most recent first. Any read or decode
// failure yields an empty list.
func (r *RecentSearches) List() []weather.RecentSearch {
	searches, err := r.load()
	if err != nil {
		log.Printf("ERROR: failed to load recent searches: %v", err)
		return []weather.RecentSearch{}
	}
	return searches
}

// Add records a search for city, replacing any entry with the same name
// regardless of case.
func (r *RecentSearches) Add(city string, lat, lon float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	searches, err := r.load()
	if err != nil {
		log.Printf("ERROR: failed to load recent searches before save: %v", err)
		searches = nil
	}

	searches = PushRecent(searches, weather.RecentSearch{
		City:      city,
		Lat:       lat,
		Lon:       lon,
		Timestamp: r.now().UnixMilli(),
	}, MaxRecentSearches)

	raw, err := json.Marshal(searches)
	if err != nil {
		log.Printf("ERROR: failed to save recent search: %v", fmt.Errorf("%w: %v", weather.ErrStorage, err))
		return
	}
	if err := r.kv.Set(RecentSearchesKey, string(raw)); err != nil {
		log.Printf("ERROR: failed to save recent search: %v", fmt.Errorf("%w: %v", weather.ErrStorage, err))
	}
}

// Clear removes every saved search.
func (r *RecentSearches) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.kv.Remove(RecentSearchesKey); err != nil {
		log.Printf("ERROR: failed to clear recent searches: %v", fmt.Errorf("%w: %v", weather.ErrStorage, err))
	}
}

func (r *RecentSearches) load() ([]weather.RecentSearch, error) {
	raw, err := r.kv.Get(RecentSearchesKey)
	if errors.Is(err, ErrNotFound) {
		return []weather.RecentSearch{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", weather.ErrStorage, err)
	}

	var searches []weather.RecentSearch
	if err := json.Unmarshal([]byte(raw), &searches); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", weather.ErrStorage, err)
	}
	if searches == nil {
		searches = []weather.RecentSearch{}
	}
	if len(searches) > MaxRecentSearches {
		searches = searches[:MaxRecentSearches]
	}
	return searches, nil
}

// PushRecent removes any entry with entry's city (case-insensitive),
// prepends entry and truncates to limit. The input slice is not modified.
func PushRecent(searches []weather.RecentSearch, entry weather.RecentSearch, limit int) []weather.RecentSearch {
	out := make([]weather.RecentSearch, 0, len(searches)+1)
	out = append(out, entry)
	for _, s := range searches {
		if weather.SameCity(s.City, entry.City) {
			continue
		}
		out = append(out, s)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

var _ weather.RecentStore = (*RecentSearches)(nil)
