package es

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcs/kmt2es/internal/komoot"
)

func sampleDetail() *komoot.TourDetail {
	return &komoot.TourDetail{
		TourSummary: komoot.TourSummary{
			ID:            42,
			Type:          komoot.TypeRecorded,
			Name:          "Alps",
			Sport:         "mtb",
			Date:          "2021-06-05T10:00:00.000+02:00",
			Distance:      42000,
			Duration:      7200,
			ElevationUp:   1200,
			ElevationDown: 1180,
		},
		TrackPoints: []komoot.TrackPoint{
			{Lat: 47.1, Lng: 11.2, Alt: 800, T: 0},
			{Lat: 47.2, Lng: 11.3, Alt: 820, T: 60000},
			{Lat: 47.3, Lng: 11.4, Alt: 790, T: 120000},
		},
	}
}

func TestMapTourDeterministic(t *testing.T) {
	a, err := MapTour(sampleDetail())
	require.NoError(t, err)
	b, err := MapTour(sampleDetail())
	require.NoError(t, err)

	ja, err := json.Marshal(a)
	require.NoError(t, err)
	jb, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Equal(t, ja, jb, "same input must yield a byte-identical document")
}

func TestMapTourFields(t *testing.T) {
	doc, err := MapTour(sampleDetail())
	require.NoError(t, err)

	assert.Equal(t, "42", doc.TourID)
	assert.Equal(t, "Alps", doc.Name)
	assert.Equal(t, "mtb", doc.Sport)
	// Timestamps are normalized to UTC.
	assert.Equal(t, "2021-06-05T08:00:00Z", doc.Date)
	require.NotNil(t, doc.Start)
	assert.Equal(t, Geopoint{Lat: 47.1, Lon: 11.2}, *doc.Start)
	assert.Positive(t, doc.TrackDistance)
	assert.Positive(t, doc.AverageSpeed)
}

func TestMapTourPreservesTrackOrder(t *testing.T) {
	detail := sampleDetail()
	doc, err := MapTour(detail)
	require.NoError(t, err)

	require.Len(t, doc.Track, len(detail.TrackPoints))
	for i, p := range detail.TrackPoints {
		assert.Equal(t, p.Lat, doc.Track[i].Location.Lat)
		assert.Equal(t, p.Lng, doc.Track[i].Location.Lon)
	}
	assert.Equal(t, "2021-06-05T08:00:00Z", doc.Track[0].Time)
	assert.Equal(t, "2021-06-05T08:01:00Z", doc.Track[1].Time)
	assert.Equal(t, "2021-06-05T08:02:00Z", doc.Track[2].Time)

	// The first point has no predecessor.
	assert.Zero(t, doc.Track[0].Distance)
	assert.Zero(t, doc.Track[0].Speed)
	assert.Positive(t, doc.Track[1].Distance)
	assert.Positive(t, doc.Track[1].Speed)
}

func TestMapTourMissingID(t *testing.T) {
	detail := sampleDetail()
	detail.ID = 0

	_, err := MapTour(detail)
	var me *MappingError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "mapping failed: missing tour id", err.Error())
}

func TestMapTourOmitsMissingOptionalFields(t *testing.T) {
	doc, err := MapTour(&komoot.TourDetail{
		TourSummary: komoot.TourSummary{ID: 7, Type: komoot.TypeRecorded},
	})
	require.NoError(t, err)

	data, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"name"`)
	assert.NotContains(t, string(data), `"date"`)
	assert.NotContains(t, string(data), `"track"`)
	assert.Contains(t, string(data), `"tour_id":"7"`)
}

func TestMapTourUnparsableDateOmitsTimes(t *testing.T) {
	detail := sampleDetail()
	detail.Date = "yesterday-ish"

	doc, err := MapTour(detail)
	require.NoError(t, err)
	assert.Empty(t, doc.Date)
	assert.Empty(t, doc.Track[0].Time)
	// Order and geometry survive even without timestamps.
	require.Len(t, doc.Track, 3)
	assert.Equal(t, 47.2, doc.Track[1].Location.Lat)
}
