package weather

import (
	"context"
)

// Gateway abstracts the remote weather provider. Every call is a single
// read with no retry and no caching; failures are *ProviderError.
type Gateway interface {
	CurrentByCity(ctx context.Context, city string) (CurrentWeather, error)
	CurrentByCoords(ctx context.Context, c Coordinates) (CurrentWeather, error)
	OneCall(ctx context.Context, c Coordinates) (OneCall, error)
	AirPollution(ctx context.Context, c Coordinates) (AirPollution, error)
}

// Locator produces the viewer's coordinates, or fails with ErrGeolocation.
type Locator interface {
	Locate(ctx context.Context) (Coordinates, error)
}

// RecentStore is the contract of the recent-search store. It never
// returns errors; storage failures are absorbed by the implementation.
type RecentStore interface {
	List() []RecentSearch
	Add(city string, lat, lon float64)
	Clear()
}
