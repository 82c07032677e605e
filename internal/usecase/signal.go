package usecase

import (
	"fmt"
	"strings"

	"CardSight/internal/domain/models"
)

// gradeMultipliers adjust raw comparable prices for the graded copy on
// the block. Ungraded or unknown grades use 1.0.
var gradeMultipliers = map[string]float64{
	"PSA 10":  2.5,
	"PSA 9":   1.8,
	"PSA 8":   1.3,
	"PSA 7":   1.0,
	"PSA 6":   0.7,
	"BGS 9.5": 2.2,
	"BGS 9":   1.6,
	"BGS 8.5": 1.2,
	"BGS 8":   1.0,
	"SGC 10":  2.0,
	"SGC 9":   1.5,
	"SGC 8":   1.1,
}

// baseConfidence per recommendation, scaled by data sufficiency.
var baseConfidence = map[models.Recommendation]float64{
	models.StrongBuy: 0.9,
	models.Buy:       0.7,
	models.WeakBuy:   0.5,
	models.Watch:     0.3,
	models.Pass:      0.8,
}

// thinDataCount marks snapshots whose ROI thresholds tighten.
const thinDataCount = 6

// SignalConfig tunes the signal engine.
type SignalConfig struct {
	MinComparables int
}

// SignalEngine converts identity, bid, and market evidence into a gated
// buy/pass recommendation. Pure: no I/O, no stored state.
type SignalEngine struct {
	minComparables int
}

func NewSignalEngine(cfg SignalConfig) *SignalEngine {
	if cfg.MinComparables <= 0 {
		cfg.MinComparables = 3
	}
	return &SignalEngine{minComparables: cfg.MinComparables}
}

// Score runs the ordered gates and, when all pass, the ROI thresholds.
func (e *SignalEngine) Score(id models.Identity, currentBid float64, snap *models.PriceSnapshot) models.SignalResult {
	if !id.Resolved() {
		return insufficient("item not identified")
	}
	if currentBid <= 0 {
		return insufficient("no active bid detected")
	}
	if !snap.HasData() {
		return insufficient("no market data")
	}
	if snap.Count < e.minComparables {
		return insufficient(fmt.Sprintf("only %d comparable sale(s), need %d", snap.Count, e.minComparables))
	}

	multiplier := gradeMultiplier(id.Grade)
	fair := snap.Mean * multiplier

	// the band scales with the grade the same way fair value does
	spread := snap.StdDev * multiplier
	if snap.Count == 1 || spread == 0 {
		spread = fair * 0.2
	}

	roi := (fair - currentBid) / currentBid * 100
	thin := snap.Count < thinDataCount
	rec := recommend(roi, thin)

	confidence := baseConfidence[rec] * dataScale(snap.Count)

	return models.SignalResult{
		Recommendation:  rec,
		Signal:          rec.State(),
		Reason:          fmt.Sprintf("fair value $%.2f vs bid $%.2f (%.0f%% ROI)", fair, currentBid, roi),
		FairValue:       fair,
		FairMin:         fair - spread,
		FairMax:         fair + spread,
		ROIPercent:      roi,
		Confidence:      confidence,
		SuggestedMaxBid: fair * 0.8,
		KeyFactors:      keyFactors(id, snap, roi, multiplier),
	}
}

func insufficient(reason string) models.SignalResult {
	return models.SignalResult{
		Recommendation: models.InsufficientData,
		Signal:         models.SignalGray,
		Reason:         reason,
	}
}

func recommend(roi float64, thin bool) models.Recommendation {
	strong, buy, weak, watch := 30.0, 15.0, 5.0, -10.0
	if thin {
		strong, buy, weak, watch = 35.0, 20.0, 5.0, -15.0
	}

	switch {
	case roi >= strong:
		return models.StrongBuy
	case roi >= buy:
		return models.Buy
	case roi >= weak:
		return models.WeakBuy
	case roi >= watch:
		return models.Watch
	default:
		return models.Pass
	}
}

func dataScale(count int) float64 {
	scale := float64(count) / 10
	if scale > 1 {
		return 1
	}
	return scale
}

func gradeMultiplier(grade string) float64 {
	if m, ok := gradeMultipliers[strings.ToUpper(strings.TrimSpace(grade))]; ok {
		return m
	}
	return 1.0
}

func keyFactors(id models.Identity, snap *models.PriceSnapshot, roi, multiplier float64) []string {
	factors := make([]string, 0, 4)

	if snap.Count >= thinDataCount {
		factors = append(factors, fmt.Sprintf("solid market data (%d recent sales)", snap.Count))
	} else {
		factors = append(factors, fmt.Sprintf("thin market data (%d recent sales)", snap.Count))
	}

	switch {
	case roi >= 30:
		factors = append(factors, "large discount to fair value")
	case roi >= 5:
		factors = append(factors, "moderate discount to fair value")
	case roi >= -10:
		factors = append(factors, "priced near fair value")
	default:
		factors = append(factors, "priced above fair value")
	}

	if id.Grade != "" {
		if multiplier > 1.0 {
			factors = append(factors, fmt.Sprintf("premium grade %s (x%.1f)", id.Grade, multiplier))
		} else {
			factors = append(factors, fmt.Sprintf("grade %s (x%.1f)", id.Grade, multiplier))
		}
	}

	if id.Rookie {
		factors = append(factors, "rookie card")
	}

	return factors
}
