package types

// GeoLocation is a single geocoding match for a free-text place name.
// Produced per-request by the geocoding client, never persisted.
type GeoLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"` // Provider's display address for the match.
}

// HourlySeries carries the hourly temperature series from the forecast provider.
type HourlySeries struct {
	Time          []string  `json:"time"`
	Temperature2M []float64 `json:"temperature_2m"`
}

// DailySeries carries the daily min/max temperature series from the forecast provider.
type DailySeries struct {
	Time             []string  `json:"time"`
	Temperature2MMax []float64 `json:"temperature_2m_max"`
	Temperature2MMin []float64 `json:"temperature_2m_min"`
}

// WeatherData is the forecast provider's payload. It is passed through to the
// response as-is; nothing downstream interprets it beyond existence.
type WeatherData struct {
	Latitude  float64      `json:"latitude"`
	Longitude float64      `json:"longitude"`
	Timezone  string       `json:"timezone"`
	Hourly    HourlySeries `json:"hourly"`
	Daily     DailySeries  `json:"daily"`
}

// SearchHistoryEntry is the public shape of one per-city lookup counter.
type SearchHistoryEntry struct {
	City  string `json:"city"`
	Count int    `json:"count"`
}

// FormView is the view model for the initial search form.
type FormView struct {
	RecentCity string // Empty when no (valid) recent-city cookie was sent.
}

// ResultView is the view model for a submitted search.
type ResultView struct {
	City    string
	Weather *WeatherData // Nil when the forecast was unavailable or the city did not resolve.
}
