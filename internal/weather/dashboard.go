package weather

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Dashboard is the read-only display tree produced by one fetch cycle.
type Dashboard struct {
	CycleID   string    `json:"cycleId"`
	Location  Location  `json:"location"`
	FetchedAt time.Time `json:"fetchedAt"`

	Current    CurrentCard `json:"current"`
	Insights   Insights    `json:"insights"`
	Atmosphere Atmosphere  `json:"atmosphere"`
	AirQuality AQIInfo     `json:"airQuality"`
	Sun        SunTimes    `json:"sun"`
	Hourly     []HourSlot  `json:"hourly"`
	Week       []WeekDay   `json:"week"`
}

// CurrentCard is the headline block next to the location name.
type CurrentCard struct {
	TemperatureC int    `json:"temperatureC"`
	DateTime     string `json:"dateTime"`
	Description  string `json:"description"`
	Forecast     string `json:"forecast"`
	Summary      string `json:"summary"`
}

// Insights are the four headline metrics.
type Insights struct {
	TemperatureC     int       `json:"temperatureC"`
	DeviationC       int       `json:"deviationC"`
	PrecipitationPct int       `json:"precipitationPct"`
	Wind             WindSpeed `json:"wind"`
}

// Atmosphere groups humidity, UV and visibility.
type Atmosphere struct {
	HumidityPct  int     `json:"humidityPct"`
	UVIndex      int     `json:"uvIndex"`
	UVLevel      UVLevel `json:"uvLevel"`
	VisibilityKm int     `json:"visibilityKm"`
}

// SunTimes holds formatted sunrise and sunset; empty when the provider omits them.
type SunTimes struct {
	Sunrise string `json:"sunrise,omitempty"`
	Sunset  string `json:"sunset,omitempty"`
}

// HourSlot is one entry of the hourly strip.
type HourSlot struct {
	Time             string `json:"time"`
	TemperatureC     int    `json:"temperatureC"`
	PrecipitationPct int    `json:"precipitationPct"`
	Description      string `json:"description"`
}

// RecentCard is the current weather of a saved city.
type RecentCard struct {
	City        string `json:"city"`
	Temp        int    `json:"temp"`
	Description string `json:"description"`
}

// Compose derives the display tree from one cycle's provider payloads.
// It is total: missing optional fields fall back to documented defaults.
func Compose(loc Location, oc OneCall, ap AirPollution, now time.Time, tz *time.Location) Dashboard {
	tz = zone(tz)

	var cur CurrentConditions
	if oc.Current != nil {
		cur = *oc.Current
	}

	temp := 0
	if cur.Temp != nil {
		temp = Round(*cur.Temp)
	}
	humidity := 0
	if cur.Humidity != nil {
		humidity = Round(*cur.Humidity)
	}

	observed := cur.Dt
	if observed == 0 {
		observed = now.Unix()
	}

	wind := ConvertWind(cur.WindSpeed)
	description := firstDescription(cur.Weather)

	d := Dashboard{
		Location:  loc,
		FetchedAt: now.UTC(),
		Current: CurrentCard{
			TemperatureC: temp,
			DateTime:     FormatDateTime(observed, tz),
			Description:  description,
		},
		Insights: Insights{
			TemperatureC:     temp,
			DeviationC:       TemperatureDeviation(oc),
			PrecipitationPct: PrecipitationPercent(oc),
			Wind:             wind,
		},
		Atmosphere: Atmosphere{
			HumidityPct:  humidity,
			UVIndex:      Round(cur.UVI),
			UVLevel:      UVLevelFor(cur.UVI),
			VisibilityKm: VisibilityKm(cur.Visibility),
		},
		AirQuality: AQILabel(AirQualityIndex(ap)),
		Week:       BuildWeek(oc.Daily, now, tz),
	}

	if cur.Sunrise != nil {
		d.Sun.Sunrise = FormatTime(*cur.Sunrise, tz)
	}
	if cur.Sunset != nil {
		d.Sun.Sunset = FormatTime(*cur.Sunset, tz)
	}

	hours := oc.Hourly
	if len(hours) > hourlySlots {
		hours = hours[:hourlySlots]
	}
	d.Hourly = make([]HourSlot, 0, len(hours))
	for _, h := range hours {
		d.Hourly = append(d.Hourly, HourSlot{
			Time:             FormatTime(h.Dt, tz),
			TemperatureC:     Round(h.Temp),
			PrecipitationPct: Round(h.Pop * 100),
			Description:      firstDescription(h.Weather),
		})
	}

	if len(hours) > 0 {
		d.Current.Forecast = firstDescription(hours[0].Weather)
		d.Current.Summary = summary(description, oc, cur, wind)
	} else {
		d.Current.Summary = capitalize(description)
	}

	return d
}

// summary renders "Light rain. High near 31°C. Winds 14 km/h. Chance of rain 40%."
func summary(description string, oc OneCall, cur CurrentConditions, wind WindSpeed) string {
	high := 0.0
	switch {
	case len(oc.Daily) > 0:
		high = oc.Daily[0].Temp.Max
	case cur.Temp != nil:
		high = *cur.Temp
	}

	var b strings.Builder
	if description != "" {
		b.WriteString(capitalize(description))
		b.WriteString(". ")
	}
	fmt.Fprintf(&b, "High near %d°C. Winds %d km/h. Chance of rain %d%%.",
		Round(high), wind.Kmh, PrecipitationPercent(oc))
	return b.String()
}

// NewRecentCard derives a recent-search card from a current-weather response.
func NewRecentCard(city string, cw CurrentWeather) RecentCard {
	return RecentCard{
		City:        city,
		Temp:        Round(cw.Main.Temp),
		Description: cw.Description(),
	}
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
