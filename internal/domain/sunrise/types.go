package sunrise

import (
	"errors"
	"fmt"
	"time"
)

// Position is a single geographic fix. It is created once per session and
// never mutated afterwards.
type Position struct {
	// Altitude is the height above sea level in meters.
	Altitude float64
	// Latitude in degrees, -90 to +90.
	Latitude float64
	// Longitude in degrees, -180 to +180.
	Longitude float64
	// ObservedAt is the wall-clock instant the fix was taken.
	ObservedAt time.Time
}

var (
	// errLatitudeRange is returned when a latitude is out of range.
	errLatitudeRange = errors.New("latitude must be between -90 and 90")
	// errLongitudeRange is returned when a longitude is out of range.
	errLongitudeRange = errors.New("longitude must be between -180 and 180")
)

// Validate checks the coordinate ranges of the fix.
func (p Position) Validate() error {
	if p.Latitude < -90 || p.Latitude > 90 {
		return errLatitudeRange
	}

	if p.Longitude < -180 || p.Longitude > 180 {
		return errLongitudeRange
	}

	return nil
}

// futureShift is the fixed adjustment applied to a reported sunrise that is
// already in the past. Day-to-day sunrise drifts by minutes, so this is an
// approximation, kept for compatibility with the reported behaviour.
const futureShift = 24 * time.Hour

// labelTimeLayout formats the sunrise instant inside the button label.
const labelTimeLayout = "2006/01/02 15:04"

// DisarmLabel is the button text shown while the alarm is armed.
const DisarmLabel = "Tap to unset the alarm"

// Sample is the weather service answer derived from a Position.
//
// SunriseUTC is always strictly in the future relative to the moment the
// sample was built: a reported sunrise already behind the wall clock is
// shifted forward by exactly 24 hours.
type Sample struct {
	// PlaceName is the human-readable name of the location.
	PlaceName string
	// SunriseUTC is the next sunrise instant, UTC.
	SunriseUTC time.Time
}

// NewSample builds a Sample from the service-reported sunrise, applying the
// future-shift rule against the provided wall-clock instant.
func NewSample(placeName string, reported, now time.Time) *Sample {
	sunriseUTC := reported.UTC()
	if sunriseUTC.Before(now) {
		sunriseUTC = sunriseUTC.Add(futureShift)
	}

	return &Sample{
		PlaceName:  placeName,
		SunriseUTC: sunriseUTC,
	}
}

// ArmLabel returns the button text offering to set the alarm.
func (s *Sample) ArmLabel() string {
	return fmt.Sprintf("Wake me at sunrise (%s)", s.SunriseUTC.UTC().Format(labelTimeLayout))
}
