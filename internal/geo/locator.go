package geo

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// StaticLocator returns fixed coordinates, typically those reported by the
// viewer's browser.
type StaticLocator struct {
	Coords weather.Coordinates
}

func (s StaticLocator) Locate(context.Context) (weather.Coordinates, error) {
	return s.Coords, nil
}

// UnavailableLocator always fails; it stands in when no geolocation source
// is configured.
type UnavailableLocator struct{}

func (UnavailableLocator) Locate(context.Context) (weather.Coordinates, error) {
	return weather.Coordinates{}, weather.ErrGeolocation
}

// geocodeFunc matches geocoder.Geocoding so tests can replace the remote call.
type geocodeFunc func(geocoder.Address) (geocoder.Location, error)

// AddressLocator geocodes a configured home address with the Google
// Geocoding API. A successful result is reused; failures are retried on
// the next call.
type AddressLocator struct {
	address geocoder.Address
	geocode geocodeFunc

	mu       sync.Mutex
	coords   weather.Coordinates
	resolved bool
}

// NewAddressLocator creates a locator for city/country. The geocoder
// package keeps the API key in a package variable.
func NewAddressLocator(apiKey, city, country string) *AddressLocator {
	geocoder.ApiKey = apiKey
	return newAddressLocator(city, country, geocoder.Geocoding)
}

func newAddressLocator(city, country string, fn geocodeFunc) *AddressLocator {
	return &AddressLocator{
		address: geocoder.Address{
			City:    strings.TrimSpace(city),
			Country: strings.TrimSpace(country),
		},
		geocode: fn,
	}
}

func (a *AddressLocator) Locate(ctx context.Context) (weather.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return weather.Coordinates{}, err
	}

	if a.address.City == "" {
		return weather.Coordinates{}, fmt.Errorf("%w: no home city configured", weather.ErrGeolocation)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.resolved {
		return a.coords, nil
	}

	loc, err := a.geocode(a.address)
	if err != nil {
		return weather.Coordinates{}, fmt.Errorf("%w: geocoding %s: %v", weather.ErrGeolocation, a.address.City, err)
	}

	a.coords = weather.Coordinates{Lat: loc.Latitude, Lon: loc.Longitude}
	a.resolved = true
	log.Printf("INFO: home address %s,%s geocoded to %.4f,%.4f",
		a.address.City, a.address.Country, loc.Latitude, loc.Longitude)
	return a.coords, nil
}

var (
	_ weather.Locator = StaticLocator{}
	_ weather.Locator = UnavailableLocator{}
	_ weather.Locator = (*AddressLocator)(nil)
)
