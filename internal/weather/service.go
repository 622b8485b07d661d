package weather

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// FallbackLocation is used whenever geolocation is unavailable.
var FallbackLocation = Location{
	Latitude:    13.0827,
	Longitude:   80.2707,
	DisplayName: "Chennai",
}

// recentCardCount is how many saved cities get a live weather card.
const recentCardCount = 2

// Service runs fetch cycles against the gateway and keeps the latest
// dashboard for the viewer.
type Service struct {
	gateway Gateway
	recent  RecentStore
	locator Locator
	tz      *time.Location
	now     func() time.Time

	mu      sync.Mutex
	seq     uint64 // last started cycle
	applied uint64 // cycle that produced the current view
	active  *Location
	view    *Dashboard
	lastErr error
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithTimezone sets the zone used for all time formatting.
func WithTimezone(tz *time.Location) Option {
	return func(s *Service) { s.tz = tz }
}

// NewService creates a new Service. locator may be nil, in which case
// every load falls back to FallbackLocation.
func NewService(gateway Gateway, recent RecentStore, locator Locator, opts ...Option) *Service {
	s := &Service{
		gateway: gateway,
		recent:  recent,
		locator: locator,
		tz:      time.Local,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load runs the initial, geolocation-triggered cycle. A failing locator
// is never surfaced: the fallback location is used instead.
func (s *Service) Load(ctx context.Context) (Dashboard, error) {
	return s.LoadWith(ctx, s.locator)
}

// LoadWith is Load with an explicit locator, e.g. coordinates supplied by the client.
func (s *Service) LoadWith(ctx context.Context, locator Locator) (Dashboard, error) {
	coords, err := locate(ctx, locator)
	if err != nil {
		log.Printf("INFO: geolocation failed, using %s: %v", FallbackLocation.DisplayName, err)
		return s.runCycle(ctx, FallbackLocation)
	}

	return s.runCycle(ctx, Location{Latitude: coords.Lat, Longitude: coords.Lon})
}

func locate(ctx context.Context, locator Locator) (Coordinates, error) {
	if locator == nil {
		return Coordinates{}, ErrGeolocation
	}
	c, err := locator.Locate(ctx)
	if err != nil {
		return Coordinates{}, fmt.Errorf("%w: %v", ErrGeolocation, err)
	}
	return c, nil
}

// Search resolves a city name and runs a cycle for it. A successful
// search is recorded in the recent-search store.
func (s *Service) Search(ctx context.Context, city string) (Dashboard, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return Dashboard{}, fmt.Errorf("%w: empty query", ErrCityNotFound)
	}

	seq := s.nextSeq()
	cw, err := s.gateway.CurrentByCity(ctx, city)
	if err != nil {
		log.Printf("ERROR: city search %q failed: %v", city, err)
		err = fmt.Errorf("%w: %q: %v", ErrCityNotFound, city, err)
		s.fail(seq, err)
		return Dashboard{}, err
	}

	name := cw.Name
	if name == "" {
		name = city
	}
	loc := Location{Latitude: cw.Coord.Lat, Longitude: cw.Coord.Lon, DisplayName: name}

	d, err := s.runCycle(ctx, loc)
	if err != nil {
		return Dashboard{}, err
	}

	s.recent.Add(loc.DisplayName, loc.Latitude, loc.Longitude)
	return d, nil
}

// Refresh re-runs a cycle for the active location. It is a no-op before
// the first successful cycle.
func (s *Service) Refresh(ctx context.Context) error {
	s.mu.Lock()
	active := s.active
	s.mu.Unlock()

	if active == nil {
		return nil
	}
	_, err := s.runCycle(ctx, *active)
	return err
}

// Current returns the latest dashboard and the banner message of the last
// failed cycle, if the failure happened after it.
func (s *Service) Current() (Dashboard, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	banner := UserMessage(s.lastErr)
	if s.view == nil {
		if s.lastErr != nil {
			return Dashboard{}, banner, s.lastErr
		}
		return Dashboard{}, "", ErrNoData
	}
	return *s.view, banner, nil
}

// RecentSearches returns the persisted recent searches, most recent first.
func (s *Service) RecentSearches() []RecentSearch {
	return s.recent.List()
}

// ClearRecentSearches removes all persisted recent searches.
func (s *Service) ClearRecentSearches() {
	s.recent.Clear()
}

// RecentCards fetches current weather for the most recent saved cities.
// Failed lookups are dropped, producing a shorter list.
func (s *Service) RecentCards(ctx context.Context) []RecentCard {
	searches := s.recent.List()
	if len(searches) > recentCardCount {
		searches = searches[:recentCardCount]
	}

	cards := make([]*RecentCard, len(searches))
	var wg sync.WaitGroup
	for i, rs := range searches {
		wg.Add(1)
		go func(i int, rs RecentSearch) {
			defer wg.Done()

			cw, err := s.gateway.CurrentByCoords(ctx, Coordinates{Lat: rs.Lat, Lon: rs.Lon})
			if err != nil {
				log.Printf("DEBUG: recent card for %s skipped: %v", rs.City, err)
				return
			}
			card := NewRecentCard(rs.City, cw)
			cards[i] = &card
		}(i, rs)
	}
	wg.Wait()

	out := make([]RecentCard, 0, len(cards))
	for _, c := range cards {
		if c != nil {
			out = append(out, *c)
		}
	}
	return out
}

// runCycle issues the aggregated forecast, air pollution and (when the
// location has no name yet) reverse lookup concurrently. Any failure
// fails the whole cycle and leaves the previous dashboard in place.
func (s *Service) runCycle(ctx context.Context, loc Location) (Dashboard, error) {
	seq := s.nextSeq()
	cycleID := uuid.NewString()
	coords := loc.Coordinates()
	log.Printf("DEBUG: cycle %s started for %.4f,%.4f", cycleID, coords.Lat, coords.Lon)

	var (
		g       errgroup.Group
		oneCall OneCall
		air     AirPollution
		named   CurrentWeather
	)

	g.Go(func() error {
		var err error
		oneCall, err = s.gateway.OneCall(ctx, coords)
		return err
	})
	g.Go(func() error {
		var err error
		air, err = s.gateway.AirPollution(ctx, coords)
		return err
	})
	if loc.DisplayName == "" {
		g.Go(func() error {
			var err error
			named, err = s.gateway.CurrentByCoords(ctx, coords)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		log.Printf("ERROR: cycle %s failed: %v", cycleID, err)
		s.fail(seq, err)
		return Dashboard{}, err
	}

	if loc.DisplayName == "" {
		loc.DisplayName = named.Name
	}

	d := Compose(loc, oneCall, air, s.now(), s.tz)
	d.CycleID = cycleID

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq < s.applied {
		log.Printf("INFO: cycle %s finished after a newer one; discarded", cycleID)
		return d, nil
	}
	s.applied = seq
	s.active = &loc
	s.view = &d
	s.lastErr = nil
	return d, nil
}

func (s *Service) nextSeq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}

// fail records err as the banner unless a newer cycle has already been applied.
func (s *Service) fail(seq uint64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq > s.applied {
		s.lastErr = err
	}
}

// IsUserFacing reports whether err should be shown to the viewer.
// Storage and geolocation failures are always absorbed.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, ErrStorage) && !errors.Is(err, ErrGeolocation)
}
