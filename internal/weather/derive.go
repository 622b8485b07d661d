package weather

import (
	"math"
	"time"
)

const (
	msToKmh  = 3.6
	kmhToMph = 0.621371

	// defaultVisibilityKm is shown when the provider omits visibility.
	defaultVisibilityKm = 9

	// weekLength is the fixed number of slots in the weekly forecast.
	weekLength = 7
	// hourlySlots is how many hourly entries the dashboard shows.
	hourlySlots = 12

	placeholderDay = "---"
)

// UVLevel is a UV index classification.
type UVLevel string

const (
	UVLow      UVLevel = "Low"
	UVModerate UVLevel = "Moderate"
	UVHigh     UVLevel = "High"
	UVVeryHigh UVLevel = "Very High"
	UVExtreme  UVLevel = "Extreme"
)

// AQIInfo is the display classification of an air quality index.
type AQIInfo struct {
	Index       int    `json:"index"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

var aqiTable = map[int]AQIInfo{
	1: {Label: "Good", Description: "The quality of the air is good in this location.", Color: "#00d419"},
	2: {Label: "Fair", Description: "Air quality is acceptable for most people.", Color: "#84cf33"},
	3: {Label: "Moderate", Description: "Sensitive individuals should limit outdoor activity.", Color: "#ffb700"},
	4: {Label: "Poor", Description: "Everyone may experience health effects.", Color: "#ff6a00"},
	5: {Label: "Very Poor", Description: "Health alert: everyone may be affected.", Color: "#ff0000"},
}

var aqiUnknown = AQIInfo{Label: "Unknown", Description: "Air quality data unavailable.", Color: "#888888"}

// WindSpeed holds the two display units of the wind speed.
type WindSpeed struct {
	Kmh int `json:"kmh"`
	Mph int `json:"mph"`
}

// WeekDay is one slot of the 7-day forecast.
type WeekDay struct {
	Day     string `json:"day"`
	Temp    int    `json:"temp"`
	IsToday bool   `json:"isToday"`
}

// Round rounds half up, so -2.5 becomes -2 and 2.5 becomes 3.
// Results outside the int range are clamped.
func Round(x float64) int {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	// Not floor(x+0.5): that sum rounds up for 0.49999999999999994.
	f := math.Floor(x)
	if x-f >= 0.5 {
		f++
	}
	switch {
	case f >= float64(math.MaxInt):
		return math.MaxInt
	case f <= float64(math.MinInt):
		return math.MinInt
	}
	return int(f)
}

// TemperatureDeviation is the spread between today's max and min.
// It is 0 without daily data.
func TemperatureDeviation(oc OneCall) int {
	if len(oc.Daily) == 0 {
		return 0
	}
	d := oc.Daily[0].Temp
	return Round(math.Abs(d.Max - d.Min))
}

// PrecipitationPercent is the first hourly precipitation probability in percent.
func PrecipitationPercent(oc OneCall) int {
	if len(oc.Hourly) == 0 {
		return 0
	}
	return Round(oc.Hourly[0].Pop * 100)
}

// ConvertWind converts m/s to km/h and mph. mph is derived from the
// already rounded km/h value.
func ConvertWind(ms float64) WindSpeed {
	kmh := Round(ms * msToKmh)
	return WindSpeed{
		Kmh: kmh,
		Mph: Round(float64(kmh) * kmhToMph),
	}
}

// UVLevelFor classifies a UV index. Each upper bound is inclusive.
func UVLevelFor(uvi float64) UVLevel {
	switch {
	case uvi <= 2:
		return UVLow
	case uvi <= 5:
		return UVModerate
	case uvi <= 7:
		return UVHigh
	case uvi <= 10:
		return UVVeryHigh
	default:
		return UVExtreme
	}
}

// AQILabel classifies an air quality index. Values outside 1..5 yield "Unknown".
func AQILabel(aqi int) AQIInfo {
	info, ok := aqiTable[aqi]
	if !ok {
		info = aqiUnknown
	}
	info.Index = aqi
	return info
}

// AirQualityIndex returns the index of the first sample, or 0 when there is none.
func AirQualityIndex(ap AirPollution) int {
	if len(ap.List) == 0 {
		return 0
	}
	return ap.List[0].Main.AQI
}

// VisibilityKm converts meters to kilometers.
func VisibilityKm(meters *float64) int {
	if meters == nil {
		return defaultVisibilityKm
	}
	return Round(*meters / 1000)
}

// FormatTime renders epoch seconds as "h:mm AM".
func FormatTime(ts int64, loc *time.Location) string {
	return time.Unix(ts, 0).In(zone(loc)).Format("3:04 PM")
}

// FormatDateTime renders epoch seconds as "15 Wed, Oct 2026 3:04pm".
func FormatDateTime(ts int64, loc *time.Location) string {
	return time.Unix(ts, 0).In(zone(loc)).Format("2 Mon, Jan 2006 3:04pm")
}

// DayName returns the 3-letter weekday of epoch seconds.
func DayName(ts int64, loc *time.Location) string {
	return time.Unix(ts, 0).In(zone(loc)).Format("Mon")
}

// BuildWeek labels up to seven daily entries and pads the result to exactly
// seven slots. Only the first slot can be today, and only when it falls on
// the same calendar date as now.
func BuildWeek(daily []DailyForecastEntry, now time.Time, loc *time.Location) []WeekDay {
	loc = zone(loc)
	week := make([]WeekDay, 0, weekLength)

	for i, d := range daily {
		if i == weekLength {
			break
		}
		week = append(week, WeekDay{
			Day:     DayName(d.Dt, loc),
			Temp:    Round(d.Temp.Day),
			IsToday: i == 0 && sameDate(time.Unix(d.Dt, 0).In(loc), now.In(loc)),
		})
	}

	for len(week) < weekLength {
		week = append(week, WeekDay{Day: placeholderDay})
	}
	return week
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func zone(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}
