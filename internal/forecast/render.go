package forecast

import (
	"fmt"
	"strconv"
)

// RenderLines formats snapshots as outgoing chat lines, one per sampled hour,
// in day order then intra-day chronological order.
func RenderLines(snapshots []DaySnapshot) []string {
	lines := make([]string, 0, len(snapshots)*len(SampleHours))
	for _, day := range snapshots {
		for i := range SampleHours {
			temp := strconv.FormatFloat(day.Temperature[i], 'f', -1, 64)
			lines = append(lines, fmt.Sprintf("Time: %s, Temperature: %s, Forecast: %s", day.Time[i], temp, day.Condition[i]))
		}
	}
	return lines
}
