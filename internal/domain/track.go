// internal/domain/track.go
package domain

import "time"

// LocationData is a single recorded position of a track.
type LocationData struct {
	UUID      Identity
	Timestamp time.Time
	Provider  string // e.g. "gps", "network"
	Latitude  float64
	Longitude float64
	Altitude  float64
	Speed     float64
}

func NewLocationData(timestamp time.Time, latitude, longitude float64) *LocationData {
	return &LocationData{
		UUID:      NewIdentity(),
		Timestamp: timestamp,
		Latitude:  latitude,
		Longitude: longitude,
	}
}

func (l *LocationData) ID() Identity { return l.UUID }
func (l *LocationData) Kind() Kind   { return KindLocationData }

// Track is a recorded route. It owns its locations.
type Track struct {
	UUID        Identity
	Name        string
	Description string
	StartTime   time.Time
	StopTime    time.Time
	Distance    float64 // meters
	Locations   []*LocationData
}

func NewTrack(name, description string, locations []*LocationData) *Track {
	if locations == nil {
		locations = []*LocationData{}
	}
	return &Track{
		UUID:        NewIdentity(),
		Name:        name,
		Description: description,
		Locations:   locations,
	}
}

// NewRecordedTrack builds a track from start/stop times and a measured distance.
func NewRecordedTrack(name, description string, start, stop time.Time, distance float64, locations []*LocationData) *Track {
	t := NewTrack(name, description, locations)
	t.StartTime = start
	t.StopTime = stop
	t.Distance = distance
	return t
}

func (t *Track) ID() Identity { return t.UUID }
func (t *Track) Kind() Kind   { return KindTrack }

// Duration returns the recorded time in whole minutes, 0 if the track was never stopped.
func (t *Track) Duration() int64 {
	if t.StartTime.IsZero() || t.StopTime.Before(t.StartTime) {
		return 0
	}
	return int64(t.StopTime.Sub(t.StartTime) / time.Minute)
}

// AverageSpeed returns km/h over the recorded time.
func (t *Track) AverageSpeed() float64 {
	if t.StartTime.IsZero() || !t.StopTime.After(t.StartTime) {
		return 0
	}
	seconds := t.StopTime.Sub(t.StartTime).Seconds()
	return t.Distance / seconds * 3.6
}
