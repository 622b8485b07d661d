package weather

import (
	"errors"
	"fmt"
)

var (
	// ErrCityNotFound is returned when a city search resolves to no match.
	ErrCityNotFound = errors.New("city not found")

	// ErrGeolocation is returned by locators that cannot produce coordinates.
	// It never reaches the user; the fallback location is used instead.
	ErrGeolocation = errors.New("geolocation unavailable")

	// ErrStorage wraps persistence failures of the recent-search store.
	// It never reaches the user.
	ErrStorage = errors.New("recent search storage failure")

	// ErrNoData is returned when no fetch cycle has completed yet.
	ErrNoData = errors.New("no weather data loaded yet")
)

const (
	msgCityNotFound = "City not found. Please try another location."
	msgGeneric      = "Failed to fetch weather data"
)

// ProviderError is a failed call to the weather provider: a non-2xx
// response, a transport error or an undecodable body.
type ProviderError struct {
	Endpoint   string
	StatusCode int // 0 when no response was received
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Endpoint, e.Message, e.Err)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Endpoint, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Endpoint, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// UserMessage turns any error into the single banner line shown to the viewer.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrCityNotFound) {
		return msgCityNotFound
	}
	var perr *ProviderError
	if errors.As(err, &perr) && perr.Message != "" {
		return perr.Message
	}
	return msgGeneric
}
