package es

import (
	"strconv"
	"time"

	"github.com/dotcs/kmt2es/internal/geo"
	"github.com/dotcs/kmt2es/internal/komoot"
)

// Geopoint is the lat/lon object shape Elasticsearch expects for geo_point
// fields.
type Geopoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// TrackPoint is one mapped coordinate of a tour track. Distance and Speed are
// computed relative to the previous point.
type TrackPoint struct {
	Location Geopoint `json:"location"`
	Altitude float64  `json:"altitude"`
	Time     string   `json:"time,omitempty"`
	Distance float64  `json:"distance"`
	Speed    float64  `json:"speed"`
}

// Document is the flat, index-ready representation of one tour. TourID doubles
// as the Elasticsearch document id so re-imports overwrite instead of
// duplicating.
type Document struct {
	TourID        string       `json:"tour_id"`
	Name          string       `json:"name,omitempty"`
	Sport         string       `json:"sport,omitempty"`
	Date          string       `json:"date,omitempty"`
	Distance      float64      `json:"distance,omitempty"`
	Duration      int64        `json:"duration,omitempty"`
	ElevationUp   float64      `json:"elevation_up,omitempty"`
	ElevationDown float64      `json:"elevation_down,omitempty"`
	Start         *Geopoint    `json:"start,omitempty"`
	TrackDistance float64      `json:"track_distance,omitempty"`
	AverageSpeed  float64      `json:"average_speed,omitempty"`
	Track         []TrackPoint `json:"track,omitempty"`
}

// MappingError reports a source payload that cannot be turned into a valid
// document.
type MappingError struct {
	Reason string
}

func (e *MappingError) Error() string {
	return "mapping failed: " + e.Reason
}

// timestamp layouts seen in komoot payloads; the zone offset appears both
// with and without a colon.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02T15:04:05Z0700",
}

// MapTour transforms a tour payload into an index-ready document. It is pure
// and deterministic: the same input always yields the same document. Optional
// source fields that are absent are simply omitted; only a missing tour id is
// an error.
func MapTour(t *komoot.TourDetail) (*Document, error) {
	if t == nil || t.ID == 0 {
		return nil, &MappingError{Reason: "missing tour id"}
	}

	doc := &Document{
		TourID:        strconv.FormatInt(t.ID, 10),
		Name:          t.Name,
		Sport:         t.Sport,
		Distance:      t.Distance,
		Duration:      t.Duration,
		ElevationUp:   t.ElevationUp,
		ElevationDown: t.ElevationDown,
	}

	start, hasStart := parseDate(t.Date)
	if hasStart {
		doc.Date = start.UTC().Format(time.RFC3339)
	}

	if len(t.TrackPoints) > 0 {
		first := t.TrackPoints[0]
		doc.Start = &Geopoint{Lat: first.Lat, Lon: first.Lng}
		doc.Track = mapTrack(t.TrackPoints, start, hasStart)
		for _, p := range doc.Track {
			doc.TrackDistance += p.Distance
		}
		if last := t.TrackPoints[len(t.TrackPoints)-1]; last.T > 0 {
			doc.AverageSpeed = doc.TrackDistance / (float64(last.T) / 1000)
		}
	}

	return doc, nil
}

// mapTrack converts raw coordinates in their original order; temporal order
// equals array order and must be preserved.
func mapTrack(points []komoot.TrackPoint, start time.Time, hasStart bool) []TrackPoint {
	track := make([]TrackPoint, 0, len(points))
	var prev *komoot.TrackPoint
	for i := range points {
		p := points[i]
		tp := TrackPoint{
			Location: Geopoint{Lat: p.Lat, Lon: p.Lng},
			Altitude: p.Alt,
		}
		if hasStart {
			tp.Time = start.Add(time.Duration(p.T) * time.Millisecond).UTC().Format(time.RFC3339)
		}
		if prev != nil {
			tp.Distance = geo.HaversineM(prev.Lat, prev.Lng, p.Lat, p.Lng)
			if dt := float64(p.T-prev.T) / 1000; dt > 0 {
				tp.Speed = tp.Distance / dt
			}
		}
		track = append(track, tp)
		prev = &points[i]
	}
	return track
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// FormatTourID renders a numeric tour id the way documents reference it.
func FormatTourID(id int64) string {
	return strconv.FormatInt(id, 10)
}
