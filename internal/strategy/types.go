// Package strategy evaluates LEAPS trade strategies against a
// fundamentals record and a synthesized chain set.
//
// Each analyzer is independent: it either returns a viable recommendation
// with an economics block, or a non-viable result carrying the reason.
// A failure inside one analyzer never prevents the others from running.
package strategy

import (
	"time"

	"github.com/Renotrader31/LEAPS/internal/pricing"
)

// Strategy names. These are wire-stable identifiers.
const (
	StockReplacement = "stock_replacement"
	PMCC             = "pmcc"
	Growth           = "growth"
	Value            = "value"
	ProtectivePut    = "protective_put"
	DiagonalSpread   = "diagonal_spread"
)

// RiskLevel is the qualitative risk label of a recommendation.
type RiskLevel string

const (
	RiskLow        RiskLevel = "Low"
	RiskMedium     RiskLevel = "Medium"
	RiskMediumHigh RiskLevel = "Medium-High"
	RiskHigh       RiskLevel = "High"
)

// SkillLevel is the experience tier a strategy is suited for.
type SkillLevel string

const (
	SkillBeginner     SkillLevel = "Beginner"
	SkillIntermediate SkillLevel = "Intermediate"
	SkillAdvanced     SkillLevel = "Advanced"
)

// Leg is one resolved option leg of a trade setup.
type Leg struct {
	Action     string             `json:"action"` // "buy" | "sell"
	Type       pricing.OptionType `json:"type"`
	Strike     float64            `json:"strike"`
	Expiration time.Time          `json:"expiration"`
	Price      float64            `json:"price"` // mid
	Delta      float64            `json:"delta"`
}

// Economics summarizes the money side of a viable recommendation.
// Amounts are per one contract (100-share multiplier applied).
type Economics struct {
	CapitalRequired   float64  `json:"capitalRequired"`
	Breakeven         float64  `json:"breakeven"`
	ExpectedReturnPct float64  `json:"expectedReturnPct"`
	MaxLoss           float64  `json:"maxLoss"`
	// MaxGain is nil when the upside is unlimited.
	MaxGain *float64 `json:"maxGain"`
}

// Recommendation is the outcome of one strategy analyzer for one ticker.
// Computed on demand, never persisted, never mutated after creation.
type Recommendation struct {
	Strategy    string     `json:"strategy"`
	Viable      bool       `json:"viable"`
	Reason      string     `json:"reason,omitempty"` // populated when non-viable
	Legs        []Leg      `json:"legs,omitempty"`
	Economics   *Economics `json:"economics,omitempty"`
	Pros        []string   `json:"pros,omitempty"`
	Cons        []string   `json:"cons,omitempty"`
	Risk        RiskLevel  `json:"riskLevel,omitempty"`
	Skill       SkillLevel `json:"skillLevel,omitempty"`
	Probability float64    `json:"probabilityOfProfit,omitempty"`
	Quality     float64    `json:"qualityScore,omitempty"`
}

func notViable(name, reason string) Recommendation {
	return Recommendation{Strategy: name, Viable: false, Reason: reason}
}

func ptr(v float64) *float64 { return &v }
