package sunrise

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestPositionValidate checks coordinate range validation.
func TestPositionValidate(t *testing.T) {
	t.Parallel()

	ok := Position{
		Latitude:   48.85,
		Longitude:  2.35,
		ObservedAt: time.Now(),
	}
	require.NoError(t, ok.Validate())

	require.Error(t, Position{Latitude: 91}.Validate())
	require.Error(t, Position{Latitude: -90.5}.Validate())
	require.Error(t, Position{Longitude: 181}.Validate())
}

// TestNewSample_FutureShift verifies a reported sunrise in the past is moved
// forward by exactly 24 hours.
func TestNewSample_FutureShift(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	reported := time.Unix(1717214400, 0) // 2024-06-01T04:00:00Z, already past.

	s := NewSample("Paris", reported, now)
	require.Equal(t, "Paris", s.PlaceName)
	require.Equal(t, time.Date(2024, 6, 2, 4, 0, 0, 0, time.UTC), s.SunriseUTC)
	require.True(t, s.SunriseUTC.After(now))
}

// TestNewSample_NoShiftNeeded verifies a sunrise still ahead is kept unchanged.
func TestNewSample_NoShiftNeeded(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	reported := now.Add(time.Hour)

	s := NewSample("Paris", reported, now)
	require.Equal(t, reported, s.SunriseUTC)
	require.True(t, s.SunriseUTC.After(now))
}

// TestLabels checks both button label forms.
func TestLabels(t *testing.T) {
	t.Parallel()

	s := &Sample{
		PlaceName:  "Paris",
		SunriseUTC: time.Date(2024, 6, 2, 4, 0, 0, 0, time.UTC),
	}

	require.Equal(t, "Wake me at sunrise (2024/06/02 04:00)", s.ArmLabel())
	require.Equal(t, "Tap to unset the alarm", DisarmLabel)
}
