package utils

import (
	"fmt"
	"sort"
	"time"
)

// WeekCount is a per-ISO-week bucket in stats responses.
type WeekCount struct {
	Week  string `json:"week"`
	Count int64  `json:"count"`
}

// WeekKey formats a timestamp as an ISO year-week label, e.g. "2024-W03".
func WeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// BucketByWeek groups timestamps into ISO-week counts, keeps the most recent
// `limit` weeks and returns them oldest first.
func BucketByWeek(dates []time.Time, limit int) []WeekCount {
	counts := make(map[string]int64, len(dates))
	for _, d := range dates {
		counts[WeekKey(d)]++
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if limit > 0 && len(keys) > limit {
		keys = keys[len(keys)-limit:]
	}

	weeks := make([]WeekCount, len(keys))
	for i, k := range keys {
		weeks[i] = WeekCount{Week: k, Count: counts[k]}
	}
	return weeks
}
