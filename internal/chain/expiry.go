package chain

import (
	"sort"
	"strconv"
	"time"

	"github.com/Renotrader31/LEAPS/internal/data"
	"github.com/Renotrader31/LEAPS/internal/logger"
)

// LEAPS threshold: expirations must lie beyond nine calendar months,
// approximated as 270 days.
const leapsHorizon = 270 * 24 * time.Hour

// maxExpirations bounds how many LEAPS expirations a chain set carries.
const maxExpirations = 4

// Selection is the outcome of LEAPS expiration selection: up to four
// dates beyond the horizon, plus where they came from.
type Selection struct {
	Dates  []time.Time
	Source string // "yahoo" | "polygon" | "mock"
}

// SelectLeapsExpirations extracts up to four LEAPS expirations from a raw
// options blob.
//
// Two upstream shapes are recognized:
//   - date-keyed (unix-second keys in ExpirationDates / ByExpiration):
//     parsed, filtered by the horizon, sorted ascending, first four kept
//   - contracts array: expiration_date fields de-duplicated, filtered,
//     sorted lexicographically (ISO-8601 dates, so lexicographic order is
//     chronological), first four kept
//
// Anything else, or a recognized shape yielding nothing, falls back to a
// fixed synthetic schedule (Jan 15 / Jun 15 of the next two years) rather
// than failing.
func SelectLeapsExpirations(raw *data.RawOptionsData, now time.Time) Selection {
	cutoff := now.Add(leapsHorizon)

	if raw != nil {
		if keys := dateKeys(raw); len(keys) > 0 {
			if dates := selectFromTimestamps(keys, cutoff); len(dates) > 0 {
				return Selection{Dates: dates, Source: raw.Source}
			}
		}
		if len(raw.Contracts) > 0 {
			if dates := selectFromContracts(raw.Contracts, cutoff); len(dates) > 0 {
				return Selection{Dates: dates, Source: raw.Source}
			}
		}
	}

	logger.Debugf("no usable upstream expirations, using synthetic LEAPS schedule")
	return Selection{Dates: syntheticSchedule(now, cutoff), Source: "mock"}
}

// dateKeys collects the unix-timestamp strings of a date-keyed blob.
func dateKeys(raw *data.RawOptionsData) []string {
	if len(raw.ExpirationDates) > 0 {
		return raw.ExpirationDates
	}
	keys := make([]string, 0, len(raw.ByExpiration))
	for k := range raw.ByExpiration {
		keys = append(keys, k)
	}
	return keys
}

func selectFromTimestamps(keys []string, cutoff time.Time) []time.Time {
	var dates []time.Time
	for _, k := range keys {
		ts, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			continue // skip malformed keys
		}
		dt := time.Unix(ts, 0).UTC()
		if dt.After(cutoff) {
			dates = append(dates, dt)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	if len(dates) > maxExpirations {
		dates = dates[:maxExpirations]
	}
	return dates
}

func selectFromContracts(contracts []data.RawContract, cutoff time.Time) []time.Time {
	seen := map[string]bool{}
	var keys []string
	for _, c := range contracts {
		if c.ExpirationDate == "" || seen[c.ExpirationDate] {
			continue
		}
		dt, err := time.Parse("2006-01-02", c.ExpirationDate)
		if err != nil {
			continue
		}
		if dt.After(cutoff) {
			seen[c.ExpirationDate] = true
			keys = append(keys, c.ExpirationDate)
		}
	}
	sort.Strings(keys)
	if len(keys) > maxExpirations {
		keys = keys[:maxExpirations]
	}

	dates := make([]time.Time, 0, len(keys))
	for _, k := range keys {
		dt, _ := time.Parse("2006-01-02", k)
		dates = append(dates, dt)
	}
	return dates
}

// syntheticSchedule produces the canonical LEAPS calendar: January and
// June monthlies for the next two years, filtered by the horizon.
func syntheticSchedule(now, cutoff time.Time) []time.Time {
	y := now.Year()
	candidates := []time.Time{
		time.Date(y+1, time.January, 15, 0, 0, 0, 0, time.UTC),
		time.Date(y+1, time.June, 15, 0, 0, 0, 0, time.UTC),
		time.Date(y+2, time.January, 15, 0, 0, 0, 0, time.UTC),
		time.Date(y+2, time.June, 15, 0, 0, 0, 0, time.UTC),
	}
	var dates []time.Time
	for _, c := range candidates {
		if c.After(cutoff) {
			dates = append(dates, c)
		}
	}
	return dates
}
