package geo

import (
	"context"
	"errors"
	"testing"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

func TestStaticLocator(t *testing.T) {
	want := weather.Coordinates{Lat: 48.85, Lon: 2.35}
	got, err := StaticLocator{Coords: want}.Locate(context.Background())
	if err != nil || got != want {
		t.Fatalf("Locate() = %+v, %v", got, err)
	}
}

func TestUnavailableLocator(t *testing.T) {
	_, err := UnavailableLocator{}.Locate(context.Background())
	if !errors.Is(err, weather.ErrGeolocation) {
		t.Fatalf("err = %v, want ErrGeolocation", err)
	}
}

func TestAddressLocatorCachesSuccess(t *testing.T) {
	calls := 0
	l := newAddressLocator(" Chennai ", "India", func(a geocoder.Address) (geocoder.Location, error) {
		calls++
		if a.City != "Chennai" || a.Country != "India" {
			t.Errorf("address = %+v", a)
		}
		return geocoder.Location{Latitude: 13.0827, Longitude: 80.2707}, nil
	})

	for i := 0; i < 3; i++ {
		got, err := l.Locate(context.Background())
		if err != nil {
			t.Fatalf("Locate() error: %v", err)
		}
		if got != (weather.Coordinates{Lat: 13.0827, Lon: 80.2707}) {
			t.Fatalf("Locate() = %+v", got)
		}
	}
	if calls != 1 {
		t.Fatalf("geocode calls = %d, want 1", calls)
	}
}

func TestAddressLocatorRetriesFailures(t *testing.T) {
	calls := 0
	l := newAddressLocator("Chennai", "India", func(geocoder.Address) (geocoder.Location, error) {
		calls++
		if calls == 1 {
			return geocoder.Location{}, errors.New("quota exceeded")
		}
		return geocoder.Location{Latitude: 1, Longitude: 2}, nil
	})

	if _, err := l.Locate(context.Background()); !errors.Is(err, weather.ErrGeolocation) {
		t.Fatalf("first call err = %v, want ErrGeolocation", err)
	}
	if got, err := l.Locate(context.Background()); err != nil || got != (weather.Coordinates{Lat: 1, Lon: 2}) {
		t.Fatalf("second call = %+v, %v", got, err)
	}
}

func TestAddressLocatorWithoutCity(t *testing.T) {
	l := newAddressLocator("", "", func(geocoder.Address) (geocoder.Location, error) {
		t.Fatal("geocoder must not be called without a city")
		return geocoder.Location{}, nil
	})

	if _, err := l.Locate(context.Background()); !errors.Is(err, weather.ErrGeolocation) {
		t.Fatalf("err = %v, want ErrGeolocation", err)
	}
}
