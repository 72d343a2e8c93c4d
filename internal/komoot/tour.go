package komoot

// TypeRecorded marks tours that were actually ridden/walked, as opposed to
// planned routes. Only recorded tours are imported.
const TypeRecorded = "tour_recorded"

// TourSummary is one entry of the paginated tour listing.
type TourSummary struct {
	ID            int64   `json:"id"`
	Type          string  `json:"type"`
	Name          string  `json:"name"`
	Sport         string  `json:"sport"`
	Date          string  `json:"date"`
	Distance      float64 `json:"distance"`
	Duration      int64   `json:"duration"`
	ElevationUp   float64 `json:"elevation_up"`
	ElevationDown float64 `json:"elevation_down"`
	TimeInMotion  int64   `json:"time_in_motion"`
}

// TrackPoint is one recorded coordinate. T is the offset from the tour start
// in milliseconds.
type TrackPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
	Alt float64 `json:"alt"`
	T   int64   `json:"t"`
}

// TourDetail is the full payload for a single tour: the listing metadata plus
// the recorded track.
type TourDetail struct {
	TourSummary
	TrackPoints []TrackPoint
}

// tourPage mirrors the HAL envelope of the komoot tour listing.
type tourPage struct {
	Embedded struct {
		Tours []TourSummary `json:"tours"`
	} `json:"_embedded"`
	Page struct {
		Size          int `json:"size"`
		TotalElements int `json:"totalElements"`
		TotalPages    int `json:"totalPages"`
		Number        int `json:"number"`
	} `json:"page"`
}

type coordinatesResponse struct {
	Items []TrackPoint `json:"items"`
}
