package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/thdelmas/Rooster/internal/domain/sunrise"
)

// parisFix is the position used throughout the tests.
var parisFix = sunrise.Position{
	Latitude:   48.85,
	Longitude:  2.35,
	ObservedAt: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
}

// newTestClient points a client at a stub server with a frozen clock.
func newTestClient(t *testing.T, handler http.HandlerFunc, now time.Time) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient("test-key",
		WithBaseURL(server.URL),
		WithClock(func() time.Time { return now }),
	)
}

// TestFetch_PastSunriseShifted replays the Paris scenario: the reported
// sunrise is already past, so the sample moves forward a day.
func TestFetch_PastSunriseShifted(t *testing.T) {
	t.Parallel()

	var gotQuery map[string]string

	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"lat":   r.URL.Query().Get("lat"),
			"lon":   r.URL.Query().Get("lon"),
			"appid": r.URL.Query().Get("appid"),
			"units": r.URL.Query().Get("units"),
		}

		_, _ = w.Write([]byte(`{"name":"Paris","sys":{"sunrise":1717214400}}`))
	}, now)

	sample, err := client.Fetch(context.Background(), parisFix)
	require.NoError(t, err)
	require.Equal(t, "Paris", sample.PlaceName)
	require.Equal(t, time.Date(2024, 6, 2, 4, 0, 0, 0, time.UTC), sample.SunriseUTC)

	require.Equal(t, map[string]string{
		"lat":   "48.85",
		"lon":   "2.35",
		"appid": "test-key",
		"units": "metric",
	}, gotQuery)
}

// TestFetch_FutureSunriseUnchanged verifies a sunrise still ahead of the
// clock passes through untouched.
func TestFetch_FutureSunriseUnchanged(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	reported := now.Add(time.Hour)

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"name":"Paris","sys":{"sunrise":` + timestamp(reported) + `}}`))
	}, now)

	sample, err := client.Fetch(context.Background(), parisFix)
	require.NoError(t, err)
	require.Equal(t, reported, sample.SunriseUTC)
}

// TestFetch_ServiceStatus maps non-2xx answers to ErrServiceStatus.
func TestFetch_ServiceStatus(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}, time.Now())

	_, err := client.Fetch(context.Background(), parisFix)
	require.ErrorIs(t, err, ErrServiceStatus)
}

// TestFetch_BadResponse maps malformed or incomplete documents to ErrBadResponse.
func TestFetch_BadResponse(t *testing.T) {
	t.Parallel()

	// Malformed JSON.
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{`))
	}, time.Now())

	_, err := client.Fetch(context.Background(), parisFix)
	require.ErrorIs(t, err, ErrBadResponse)

	// Missing fields.
	client = newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"name":"Paris","sys":{}}`))
	}, time.Now())

	_, err = client.Fetch(context.Background(), parisFix)
	require.ErrorIs(t, err, ErrBadResponse)
}

// TestFetch_Network maps transport failures to ErrNetwork.
func TestFetch_Network(t *testing.T) {
	t.Parallel()

	client := NewClient("test-key", WithBaseURL("http://127.0.0.1:1"), WithTimeout(200*time.Millisecond))

	_, err := client.Fetch(context.Background(), parisFix)
	require.ErrorIs(t, err, ErrNetwork)
}

// timestamp renders t as a UNIX-seconds JSON number.
func timestamp(t time.Time) string {
	return strconv.FormatInt(t.Unix(), 10)
}
