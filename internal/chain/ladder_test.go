package chain

import (
	"errors"
	"testing"

	"github.com/Renotrader31/LEAPS/internal/pricing"
)

func TestStrikeIntervalTiers(t *testing.T) {
	cases := []struct {
		spot float64
		want float64
	}{
		{10, 2.5},
		{24.99, 2.5},
		{25, 5},
		{49, 5},
		{50, 10},
		{175, 10},
		{199.99, 10},
		{200, 25},
		{499, 25},
		{500, 50},
		{1200, 50},
	}
	for _, c := range cases {
		if got := StrikeInterval(c.spot); got != c.want {
			t.Fatalf("StrikeInterval(%v) = %v, want %v", c.spot, got, c.want)
		}
	}
}

func TestStrikeLadderProperties(t *testing.T) {
	for _, spot := range []float64{3, 12.5, 30, 99, 175, 250, 480, 1500} {
		strikes, err := StrikeLadder(spot)
		if err != nil {
			t.Fatalf("StrikeLadder(%v): %v", spot, err)
		}
		if len(strikes) == 0 {
			t.Fatalf("StrikeLadder(%v): empty ladder", spot)
		}
		if len(strikes) > 30 {
			t.Fatalf("StrikeLadder(%v): %d strikes, cap is 30", spot, len(strikes))
		}
		for i, s := range strikes {
			if s <= 0 {
				t.Fatalf("StrikeLadder(%v): non-positive strike %v", spot, s)
			}
			if i > 0 && s <= strikes[i-1] {
				t.Fatalf("StrikeLadder(%v): not strictly increasing at %d (%v then %v)",
					spot, i, strikes[i-1], s)
			}
		}
	}
}

func TestStrikeLadderRejectsNonPositiveSpot(t *testing.T) {
	for _, spot := range []float64{0, -10} {
		if _, err := StrikeLadder(spot); !errors.Is(err, pricing.ErrInvalidInput) {
			t.Fatalf("StrikeLadder(%v): err = %v, want ErrInvalidInput", spot, err)
		}
	}
}

// spot=175 sits exactly between ladder entries 170 and 180; the first
// minimizer in ascending order wins.
func TestATMStrikeTieBreak(t *testing.T) {
	strikes, err := StrikeLadder(175)
	if err != nil {
		t.Fatalf("ladder: %v", err)
	}
	got := atmStrike(strikes, 175)
	if got != 170 {
		t.Fatalf("atmStrike = %v, want 170 (first of the equidistant pair)", got)
	}
}

func TestATMStrikePicksClosest(t *testing.T) {
	strikes := []float64{100, 110, 120, 130}
	if got := atmStrike(strikes, 118); got != 120 {
		t.Fatalf("atmStrike(118) = %v, want 120", got)
	}
	if got := atmStrike(strikes, 101); got != 100 {
		t.Fatalf("atmStrike(101) = %v, want 100", got)
	}
}
