package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// DefaultOpenWeatherBaseURL is the public OpenWeatherMap API host.
const DefaultOpenWeatherBaseURL = "https://api.openweathermap.org"

const (
	endpointCurrentByCity   = "weather-by-city"
	endpointCurrentByCoords = "weather-by-coords"
	endpointOneCall         = "onecall"
	endpointAirPollution    = "air-pollution"
)

// OpenWeatherProvider implements weather.Gateway for OpenWeatherMap.
type OpenWeatherProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client

	current *gobreaker.CircuitBreaker
	oneCall *gobreaker.CircuitBreaker
	air     *gobreaker.CircuitBreaker
}

// NewOpenWeatherProvider creates a gateway. An empty baseURL selects
// DefaultOpenWeatherBaseURL.
func NewOpenWeatherProvider(client *http.Client, apiKey, baseURL string) *OpenWeatherProvider {
	if baseURL == "" {
		baseURL = DefaultOpenWeatherBaseURL
	}

	return &OpenWeatherProvider{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		current: newBreaker("openweather-current"),
		oneCall: newBreaker("openweather-onecall"),
		air:     newBreaker("openweather-air"),
	}
}

// CurrentByCity looks up current weather by city name. The name is URL-encoded.
func (p *OpenWeatherProvider) CurrentByCity(ctx context.Context, city string) (weather.CurrentWeather, error) {
	values := url.Values{}
	values.Set("q", city)
	values.Set("units", "metric")

	var out weather.CurrentWeather
	err := getJSON(ctx, p.client, p.current, endpointCurrentByCity, "City not found",
		p.url("/data/2.5/weather", values), &out)
	return out, err
}

// CurrentByCoords looks up current weather by coordinates.
func (p *OpenWeatherProvider) CurrentByCoords(ctx context.Context, c weather.Coordinates) (weather.CurrentWeather, error) {
	values := coordValues(c)
	values.Set("units", "metric")

	var out weather.CurrentWeather
	err := getJSON(ctx, p.client, p.current, endpointCurrentByCoords, "Failed to fetch weather data",
		p.url("/data/2.5/weather", values), &out)
	return out, err
}

// OneCall fetches the aggregated current/hourly/daily forecast.
func (p *OpenWeatherProvider) OneCall(ctx context.Context, c weather.Coordinates) (weather.OneCall, error) {
	values := coordValues(c)
	values.Set("units", "metric")

	var out weather.OneCall
	err := getJSON(ctx, p.client, p.oneCall, endpointOneCall, "Failed to fetch One Call data",
		p.url("/data/3.0/onecall", values), &out)
	return out, err
}

// AirPollution fetches the current air quality. The endpoint carries no
// temperatures, so no units are requested.
func (p *OpenWeatherProvider) AirPollution(ctx context.Context, c weather.Coordinates) (weather.AirPollution, error) {
	var out weather.AirPollution
	err := getJSON(ctx, p.client, p.air, endpointAirPollution, "Failed to fetch air pollution data",
		p.url("/data/2.5/air_pollution", coordValues(c)), &out)
	return out, err
}

func (p *OpenWeatherProvider) url(path string, values url.Values) string {
	values.Set("appid", p.apiKey)
	return fmt.Sprintf("%s%s?%s", p.baseURL, path, values.Encode())
}

func coordValues(c weather.Coordinates) url.Values {
	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(c.Lat, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(c.Lon, 'f', -1, 64))
	return values
}

var _ weather.Gateway = (*OpenWeatherProvider)(nil)
