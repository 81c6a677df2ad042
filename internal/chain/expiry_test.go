package chain

import (
	"fmt"
	"testing"
	"time"

	"github.com/Renotrader31/LEAPS/internal/data"
)

var testNow = time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)

func TestSelectFromTimestampKeys(t *testing.T) {
	near := testNow.AddDate(0, 2, 0)  // inside the horizon, must drop
	far1 := testNow.AddDate(0, 10, 0) // beyond 270 days
	far2 := testNow.AddDate(1, 4, 0)

	raw := &data.RawOptionsData{
		Source: "yahoo",
		ExpirationDates: []string{
			fmt.Sprintf("%d", far2.Unix()),
			fmt.Sprintf("%d", near.Unix()),
			fmt.Sprintf("%d", far1.Unix()),
			"not-a-timestamp",
		},
	}

	sel := SelectLeapsExpirations(raw, testNow)
	if sel.Source != "yahoo" {
		t.Fatalf("source = %q, want yahoo", sel.Source)
	}
	if len(sel.Dates) != 2 {
		t.Fatalf("got %d dates, want 2: %v", len(sel.Dates), sel.Dates)
	}
	if !sel.Dates[0].Equal(far1.Truncate(time.Second)) {
		t.Fatalf("dates not sorted ascending: %v", sel.Dates)
	}
	cutoff := testNow.Add(leapsHorizon)
	for _, d := range sel.Dates {
		if !d.After(cutoff) {
			t.Fatalf("date %v inside the 270-day horizon", d)
		}
	}
}

func TestSelectFromContractsDedupesAndSorts(t *testing.T) {
	far := testNow.AddDate(1, 0, 0).Format("2006-01-02")
	farther := testNow.AddDate(2, 0, 0).Format("2006-01-02")

	raw := &data.RawOptionsData{
		Source: "polygon",
		Contracts: []data.RawContract{
			{ExpirationDate: farther},
			{ExpirationDate: far},
			{ExpirationDate: far}, // duplicate
			{ExpirationDate: "garbage"},
			{ExpirationDate: testNow.AddDate(0, 1, 0).Format("2006-01-02")}, // too near
		},
	}

	sel := SelectLeapsExpirations(raw, testNow)
	if sel.Source != "polygon" {
		t.Fatalf("source = %q, want polygon", sel.Source)
	}
	if len(sel.Dates) != 2 {
		t.Fatalf("got %d dates, want 2: %v", len(sel.Dates), sel.Dates)
	}
	if !sel.Dates[0].Before(sel.Dates[1]) {
		t.Fatalf("dates not ascending: %v", sel.Dates)
	}
}

func TestSelectCapsAtFourDates(t *testing.T) {
	raw := &data.RawOptionsData{Source: "yahoo"}
	for i := 0; i < 8; i++ {
		ts := testNow.AddDate(0, 10+i, 0).Unix()
		raw.ExpirationDates = append(raw.ExpirationDates, fmt.Sprintf("%d", ts))
	}

	sel := SelectLeapsExpirations(raw, testNow)
	if len(sel.Dates) != 4 {
		t.Fatalf("got %d dates, want 4", len(sel.Dates))
	}
	// First four chronologically.
	for i := 1; i < len(sel.Dates); i++ {
		if !sel.Dates[i-1].Before(sel.Dates[i]) {
			t.Fatalf("dates not ascending: %v", sel.Dates)
		}
	}
}

func TestSelectFallsBackToSyntheticSchedule(t *testing.T) {
	cases := []*data.RawOptionsData{
		nil,
		{Source: "mock"},
		{Source: "yahoo", ExpirationDates: []string{"junk", "more junk"}},
	}
	for _, raw := range cases {
		sel := SelectLeapsExpirations(raw, testNow)
		if sel.Source != "mock" {
			t.Fatalf("fallback source = %q, want mock", sel.Source)
		}
		if len(sel.Dates) == 0 || len(sel.Dates) > 4 {
			t.Fatalf("fallback produced %d dates", len(sel.Dates))
		}
		cutoff := testNow.Add(leapsHorizon)
		for _, d := range sel.Dates {
			if !d.After(cutoff) {
				t.Fatalf("fallback date %v inside the horizon", d)
			}
			if d.Day() != 15 {
				t.Fatalf("fallback date %v not on the 15th", d)
			}
			if m := d.Month(); m != time.January && m != time.June {
				t.Fatalf("fallback date %v not a January/June monthly", d)
			}
		}
	}
}
