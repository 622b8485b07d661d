package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// stepClock returns a clock that advances one second per call.
func stepClock(start time.Time) func() time.Time {
	now := start
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

// brokenKV fails every operation.
type brokenKV struct{}

func (brokenKV) Get(string) (string, error) { return "", errors.New("disk on fire") }
func (brokenKV) Set(string, string) error { return errors.New("disk on fire") }
func (brokenKV) Remove(string) error { return errors.New("disk on fire") }

func TestRecentSearchesDedupCaseInsensitive(t *testing.T) {
	start := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	r := NewRecentSearches(NewMemoryKV(), stepClock(start))

	r.Add("Paris", 48.85, 2.35)
	r.Add("Oslo", 59.91, 10.75)
	r.Add("PARIS", 48.86, 2.36)

	got := r.List()
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2: %+v", len(got), got)
	}
	if got[0].City != "PARIS" || got[1].City != "Oslo" {
		t.Fatalf("order = %s, %s; want PARIS, Oslo", got[0].City, got[1].City)
	}
	if want := start.Add(3 * time.Second).UnixMilli(); got[0].Timestamp != want {
		t.Fatalf("timestamp = %d, want second call's time %d", got[0].Timestamp, want)
	}
	if got[0].Lat != 48.86 || got[0].Lon != 2.36 {
		t.Fatalf("coords not refreshed: %+v", got[0])
	}
}

func TestRecentSearchesCapEvictsOldest(t *testing.T) {
	r := NewRecentSearches(NewMemoryKV(), stepClock(time.Unix(0, 0)))

	cities := []string{"A", "B", "C", "D", "E", "F"}
	for _, c := range cities {
		r.Add(c, 0, 0)
		if n := len(r.List()); n > MaxRecentSearches {
			t.Fatalf("list grew to %d", n)
		}
	}

	got := r.List()
	if len(got) != MaxRecentSearches {
		t.Fatalf("len = %d, want %d", len(got), MaxRecentSearches)
	}
	want := []string{"F", "E", "D", "C", "B"}
	for i, w := range want {
		if got[i].City != w {
			t.Errorf("got[%d] = %s, want %s", i, got[i].City, w)
		}
	}
}

// slowKV delays reads the way a network round-trip would.
type slowKV struct {
	KV
	delay time.Duration
}

func (s slowKV) Get(key string) (string, error) {
	time.Sleep(s.delay)
	return s.KV.Get(key)
}

func TestRecentSearchesListCapsOversizedStorage(t *testing.T) {
	seeded := make([]weather.RecentSearch, 7)
	for i := range seeded {
		seeded[i] = weather.RecentSearch{City: fmt.Sprintf("city-%d", i)}
	}
	raw, err := json.Marshal(seeded)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	kv := NewMemoryKV()
	_ = kv.Set(RecentSearchesKey, string(raw))
	r := NewRecentSearches(kv, nil)

	got := r.List()
	if len(got) != MaxRecentSearches {
		t.Fatalf("len = %d, want %d", len(got), MaxRecentSearches)
	}
	if got[0].City != "city-0" || got[4].City != "city-4" {
		t.Fatalf("kept wrong entries: %+v", got)
	}

	r.Add("fresh", 0, 0)
	if got := r.List(); len(got) != MaxRecentSearches || got[0].City != "fresh" {
		t.Fatalf("after add: %+v", got)
	}
}

func TestRecentSearchesConcurrentAdd(t *testing.T) {
	r := NewRecentSearches(slowKV{KV: NewMemoryKV(), delay: 20 * time.Millisecond}, nil)

	const n = 4
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.Add(fmt.Sprintf("city-%d", i), 0, 0)
		}(i)
	}
	wg.Wait()

	if got := r.List(); len(got) != n {
		t.Fatalf("%d concurrent searches, %d persisted: %+v", n, len(got), got)
	}
}

func TestRecentSearchesCorruptedStorage(t *testing.T) {
	kv := NewMemoryKV()
	_ = kv.Set(RecentSearchesKey, "{not json")
	r := NewRecentSearches(kv, nil)

	got := r.List()
	if got == nil || len(got) != 0 {
		t.Fatalf("List() = %#v, want empty non-nil slice", got)
	}

	// A save over corrupted content starts a fresh list.
	r.Add("Lagos", 6.52, 3.37)
	if got := r.List(); len(got) != 1 || got[0].City != "Lagos" {
		t.Fatalf("after add: %+v", got)
	}
}

func TestRecentSearchesBrokenStorageIsSilent(t *testing.T) {
	r := NewRecentSearches(brokenKV{}, nil)

	r.Add("Lima", -12.04, -77.04)
	r.Clear()
	if got := r.List(); len(got) != 0 {
		t.Fatalf("List() = %+v, want empty", got)
	}
}

func TestRecentSearchesClear(t *testing.T) {
	kv := NewMemoryKV()
	r := NewRecentSearches(kv, nil)
	r.Add("Lima", -12.04, -77.04)

	r.Clear()
	if got := r.List(); len(got) != 0 {
		t.Fatalf("List() = %+v, want empty", got)
	}
	if _, err := kv.Get(RecentSearchesKey); !errors.Is(err, ErrNotFound) {
		t.Fatalf("key still present: %v", err)
	}
}

func TestRecentSearchesPersistedLayout(t *testing.T) {
	kv := NewMemoryKV()
	r := NewRecentSearches(kv, func() time.Time { return time.UnixMilli(1760518800123) })
	r.Add("Chennai", 13.0827, 80.2707)

	raw, err := kv.Get(RecentSearchesKey)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	want := `[{"city":"Chennai","lat":13.0827,"lon":80.2707,"timestamp":1760518800123}]`
	if raw != want {
		t.Fatalf("persisted = %s, want %s", raw, want)
	}
}

func TestPushRecent(t *testing.T) {
	in := []weather.RecentSearch{{City: "a"}, {City: "b"}, {City: "c"}}

	got := PushRecent(in, weather.RecentSearch{City: "B"}, 3)
	want := []string{"B", "a", "c"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].City != want[i] {
			t.Errorf("got[%d] = %s, want %s", i, got[i].City, want[i])
		}
	}
	if in[0].City != "a" || in[1].City != "b" || len(in) != 3 {
		t.Fatalf("input modified: %+v", in)
	}

	got = PushRecent(in, weather.RecentSearch{City: "d"}, 3)
	if len(got) != 3 || got[0].City != "d" || got[2].City != "b" {
		t.Fatalf("cap not applied: %+v", got)
	}
}
