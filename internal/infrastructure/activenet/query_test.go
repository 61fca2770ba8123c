package activenet

import (
	"encoding/json"
	"net/url"
	"strings"
	"testing"

	"github.com/example/icecheck/internal/domain/availability"
	"github.com/stretchr/testify/require"
)

const testSearchURL = "https://anc.example.com/ottawa/reservation/search"

func TestSearchURL(t *testing.T) {
	w := availability.Window{Date: "2025-01-06", Start: "17:00", End: "21:00", FacilityIDs: []int64{12, 34}}
	link := SearchURL(testSearchURL, w)

	require.True(t, strings.HasPrefix(link, testSearchURL+"?locale=en-US&attendee=15&resourceType=0&equipmentQty=1&eventDateAndTime="))
	require.True(t, strings.HasSuffix(link, "&facilityCenterIds=12,34"))
	require.Contains(t, link, "2025-01-06")
	require.Contains(t, link, "%2217%3A00%3A00%22")
	require.Contains(t, link, "%2221%3A00%3A00%22")
	require.NotContains(t, link, "+")

	u, err := url.Parse(link)
	require.NoError(t, err)

	var ev map[string]any
	require.NoError(t, json.Unmarshal([]byte(u.Query().Get("eventDateAndTime")), &ev))
	require.Equal(t, map[string]any{
		"fullDayBooking": false,
		"eventDates":     []any{"2025-01-06"},
		"startTime":      "17:00:00",
		"endTime":        "21:00:00",
		"hoursPerDay":    float64(1),
		"isHoursPerDay":  true,
	}, ev)
}

func TestSearchURLMalformedTimes(t *testing.T) {
	w := availability.Window{Date: "2025-01-06", Start: "5pm", End: "", FacilityIDs: []int64{7}}
	link := SearchURL(testSearchURL, w)
	require.Contains(t, link, "5pm%3A00")
	require.True(t, strings.HasSuffix(link, "facilityCenterIds=7"))
}

func TestQuote(t *testing.T) {
	require.Equal(t, "a%20b/c%3Ad%2C%22e%22", quote(`a b/c:d,"e"`))
}

func TestNewSearchRequest(t *testing.T) {
	req := NewSearchRequest(availability.Window{Date: "2025-01-06", Start: "08:00", End: "21:00", FacilityIDs: []int64{12, 34}})
	b, err := json.Marshal(req)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	require.True(t, strings.HasPrefix(got["search_client_id"].(string), "auto-"))
	delete(got, "search_client_id")
	require.Equal(t, map[string]any{
		"name":       "",
		"attendee":   float64(15),
		"date_times": []any{},
		"center_ids": []any{float64(12), float64(34)},
		"date_time_length": map[string]any{
			"dates":         []any{"2025-01-06"},
			"start_time":    "08:00:00",
			"end_time":      "21:00:00",
			"hours_per_day": float64(1),
		},
		"full_day_booking": false,
		"resource_type":    float64(0),
		"start_index":      float64(0),
	}, got)
}

func TestPageStateAvailable(t *testing.T) {
	testCases := []struct {
		state    pageState
		expected bool
	}{
		{state: pageState{}, expected: false},
		{state: pageState{Rendered: true}, expected: true},
		{state: pageState{Rendered: true, Empty: true, EmptyText: "No results found. Try again."}, expected: false},
		{state: pageState{Rendered: true, Empty: true, EmptyText: "Loading"}, expected: true},
	}
	for _, tc := range testCases {
		require.Equal(t, tc.expected, tc.state.available(), "%+v", tc.state)
	}
}
