package weather

import (
	"strings"
	"time"
)

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Location is the place a fetch cycle runs against.
// It is replaced wholesale on every new search or geolocation.
type Location struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	DisplayName string  `json:"displayName"`
}

// Coordinates returns the lat/lon pair of the location.
func (l Location) Coordinates() Coordinates {
	return Coordinates{Lat: l.Latitude, Lon: l.Longitude}
}

// RecentSearch is a persisted, user-confirmed city lookup.
// The JSON layout is the persisted layout.
type RecentSearch struct {
	City      string  `json:"city"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Timestamp int64   `json:"timestamp"` // unix milliseconds
}

// SameCity reports whether two city names refer to the same entry.
func SameCity(a, b string) bool {
	return strings.EqualFold(a, b)
}

// SavedAt returns the entry timestamp as a time.Time.
func (r RecentSearch) SavedAt() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// WeatherCondition is a single entry of the provider's "weather" array.
type WeatherCondition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// CurrentWeather is the response of the current-weather endpoint
// (by city name or by coordinates).
type CurrentWeather struct {
	Coord   Coordinates        `json:"coord"`
	Weather []WeatherCondition `json:"weather"`
	Main    struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		TempMin   float64 `json:"temp_min"`
		TempMax   float64 `json:"temp_max"`
		Pressure  float64 `json:"pressure"`
		Humidity  float64 `json:"humidity"`
	} `json:"main"`
	Visibility *float64 `json:"visibility,omitempty"`
	Wind       struct {
		Speed float64 `json:"speed"`
		Deg   float64 `json:"deg"`
	} `json:"wind"`
	Sys struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
	Dt   int64  `json:"dt"`
	Name string `json:"name"`
}

// Description returns the first weather description, or "".
func (c CurrentWeather) Description() string {
	return firstDescription(c.Weather)
}

// CurrentConditions is the "current" block of the aggregated forecast.
// Temperatures are °C and wind speed m/s because every call requests metric units.
type CurrentConditions struct {
	Dt         int64              `json:"dt"`
	Sunrise    *int64             `json:"sunrise,omitempty"`
	Sunset     *int64             `json:"sunset,omitempty"`
	Temp       *float64           `json:"temp,omitempty"`
	FeelsLike  float64            `json:"feels_like"`
	Pressure   float64            `json:"pressure"`
	Humidity   *float64           `json:"humidity,omitempty"`
	UVI        float64            `json:"uvi"`
	Clouds     float64            `json:"clouds"`
	Visibility *float64           `json:"visibility,omitempty"`
	WindSpeed  float64            `json:"wind_speed"`
	WindDeg    float64            `json:"wind_deg"`
	Weather    []WeatherCondition `json:"weather"`
}

// HourlyForecastEntry is one element of the "hourly" block.
type HourlyForecastEntry struct {
	Dt      int64              `json:"dt"`
	Temp    float64            `json:"temp"`
	Pop     float64            `json:"pop"` // probability of precipitation, 0..1
	Weather []WeatherCondition `json:"weather"`
}

// DailyForecastEntry is one element of the "daily" block.
type DailyForecastEntry struct {
	Dt   int64 `json:"dt"`
	Temp struct {
		Day float64 `json:"day"`
		Min float64 `json:"min"`
		Max float64 `json:"max"`
	} `json:"temp"`
	Pop     float64            `json:"pop"`
	Weather []WeatherCondition `json:"weather"`
}

// OneCall is the aggregated forecast: current, hourly and daily data
// for one coordinate pair.
type OneCall struct {
	Lat            float64               `json:"lat"`
	Lon            float64               `json:"lon"`
	Timezone       string                `json:"timezone"`
	TimezoneOffset int                   `json:"timezone_offset"`
	Current        *CurrentConditions    `json:"current,omitempty"`
	Hourly         []HourlyForecastEntry `json:"hourly,omitempty"`
	Daily          []DailyForecastEntry  `json:"daily,omitempty"`
}

// AirQualitySample is one element of the air-pollution "list".
type AirQualitySample struct {
	Dt   int64 `json:"dt"`
	Main struct {
		AQI int `json:"aqi"`
	} `json:"main"`
	Components map[string]float64 `json:"components"`
}

// AirPollution is the response of the air-pollution endpoint.
type AirPollution struct {
	Coord Coordinates        `json:"coord"`
	List  []AirQualitySample `json:"list"`
}

func firstDescription(items []WeatherCondition) string {
	if len(items) == 0 {
		return ""
	}
	return items[0].Description
}
