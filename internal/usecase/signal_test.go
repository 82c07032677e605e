package usecase

import (
	"math"
	"strings"
	"testing"
	"time"

	"CardSight/internal/domain/models"
)

func snapshotFor(prices []float64) *models.PriceSnapshot {
	snap := &models.PriceSnapshot{
		Count:    len(prices),
		Prices:   prices,
		CachedAt: time.Now(),
	}
	if len(prices) == 0 {
		return snap
	}
	var sum float64
	for _, p := range prices {
		sum += p
	}
	snap.Mean = sum / float64(len(prices))
	snap.Min = prices[0]
	snap.Max = prices[len(prices)-1]
	var sq float64
	for _, p := range prices {
		d := p - snap.Mean
		sq += d * d
	}
	snap.StdDev = math.Sqrt(sq / float64(len(prices)))
	return snap
}

func TestScoreUnidentifiedItem(t *testing.T) {
	e := NewSignalEngine(SignalConfig{})
	got := e.Score(models.Identity{}, 50, snapshotFor([]float64{10, 20, 30}))

	if got.Recommendation != models.InsufficientData || got.Signal != models.SignalGray {
		t.Fatalf("got %s/%s", got.Recommendation, got.Signal)
	}
	if got.Reason != "item not identified" {
		t.Errorf("reason = %q", got.Reason)
	}
}

func TestScoreNoBidGatesBeforeData(t *testing.T) {
	e := NewSignalEngine(SignalConfig{})
	// data is plentiful; the bid gate must still fire first
	got := e.Score(models.Identity{Name: "Mike Trout"}, 0, snapshotFor([]float64{40, 45, 50, 55, 60, 65}))

	if got.Signal != models.SignalGray || got.Reason != "no active bid detected" {
		t.Fatalf("got %s %q", got.Signal, got.Reason)
	}
}

func TestScoreNoMarketData(t *testing.T) {
	e := NewSignalEngine(SignalConfig{})
	got := e.Score(models.Identity{Name: "Mike Trout"}, 50, &models.PriceSnapshot{})

	if got.Reason != "no market data" {
		t.Fatalf("reason = %q", got.Reason)
	}
}

func TestScoreTooFewComparablesCitesCounts(t *testing.T) {
	e := NewSignalEngine(SignalConfig{MinComparables: 3})
	got := e.Score(models.Identity{Name: "Mike Trout"}, 50, snapshotFor([]float64{40, 45}))

	if got.Recommendation != models.InsufficientData {
		t.Fatalf("recommendation = %s", got.Recommendation)
	}
	if got.Reason != "only 2 comparable sale(s), need 3" {
		t.Errorf("reason = %q", got.Reason)
	}
}

func TestScoreGradedStrongBuy(t *testing.T) {
	// 12 comparables, mean 47.75; PSA 10 multiplier 2.5 => fair ~119.38
	prices := []float64{30, 35, 38, 40, 42, 45, 50, 52, 55, 58, 60, 68}
	id := models.Identity{Name: "Mike Trout", Grade: "PSA 10", GradingCompany: "PSA", Rookie: true}

	e := NewSignalEngine(SignalConfig{})
	got := e.Score(id, 40, snapshotFor(prices))

	if got.Recommendation != models.StrongBuy || got.Signal != models.SignalGreen {
		t.Fatalf("got %s/%s, want STRONG_BUY/GREEN", got.Recommendation, got.Signal)
	}
	if math.Abs(got.FairValue-119.375) > 0.01 {
		t.Errorf("fair value = %v, want ~119.375", got.FairValue)
	}
	if math.Abs(got.ROIPercent-198.4375) > 0.01 {
		t.Errorf("roi = %v, want ~198.44", got.ROIPercent)
	}
	if got.Confidence != 0.9 {
		t.Errorf("confidence = %v, want 0.9", got.Confidence)
	}
	if math.Abs(got.SuggestedMaxBid-got.FairValue*0.8) > 1e-9 {
		t.Errorf("suggested max bid = %v, want fair*0.8", got.SuggestedMaxBid)
	}

	joined := strings.Join(got.KeyFactors, "; ")
	if !strings.Contains(joined, "rookie") {
		t.Errorf("key factors missing rookie: %v", got.KeyFactors)
	}
	if !strings.Contains(joined, "PSA 10") {
		t.Errorf("key factors missing grade: %v", got.KeyFactors)
	}
}

func TestScoreThinDataTightensThresholds(t *testing.T) {
	// roi 32% clears the normal STRONG_BUY bar (30) but not the thin one (35)
	prices := []float64{120, 130, 134, 144}
	e := NewSignalEngine(SignalConfig{})
	got := e.Score(models.Identity{Name: "Derek Jeter"}, 100, snapshotFor(prices))

	if got.ROIPercent != 32 {
		t.Fatalf("roi = %v, want 32", got.ROIPercent)
	}
	if got.Recommendation != models.Buy {
		t.Fatalf("recommendation = %s, want BUY under thin thresholds", got.Recommendation)
	}
	if math.Abs(got.Confidence-0.7*0.4) > 1e-9 {
		t.Errorf("confidence = %v, want 0.28", got.Confidence)
	}
}

func TestScorePass(t *testing.T) {
	prices := []float64{70, 75, 78, 80, 82, 85, 88, 90, 92, 60}
	e := NewSignalEngine(SignalConfig{})
	got := e.Score(models.Identity{Name: "Derek Jeter"}, 100, snapshotFor(prices))

	if got.Recommendation != models.Pass || got.Signal != models.SignalRed {
		t.Fatalf("got %s/%s, want PASS/RED", got.Recommendation, got.Signal)
	}
	if got.Confidence != 0.8 {
		t.Errorf("confidence = %v, want 0.8", got.Confidence)
	}
}

func TestScoreSpreadScalesWithGrade(t *testing.T) {
	prices := []float64{40, 50, 60}
	snap := snapshotFor(prices)
	e := NewSignalEngine(SignalConfig{})
	got := e.Score(models.Identity{Name: "Mike Trout", Grade: "PSA 10"}, 40, snap)

	want := snap.StdDev * 2.5
	if math.Abs((got.FairMax-got.FairValue)-want) > 1e-9 {
		t.Fatalf("graded spread = %v, want stddev x multiplier %v", got.FairMax-got.FairValue, want)
	}
	if math.Abs((got.FairValue-got.FairMin)-want) > 1e-9 {
		t.Fatalf("band not symmetric: min side = %v", got.FairValue-got.FairMin)
	}
}

func TestScoreZeroSpreadUsesTwentyPercent(t *testing.T) {
	prices := []float64{50, 50, 50}
	e := NewSignalEngine(SignalConfig{})
	got := e.Score(models.Identity{Name: "Derek Jeter"}, 40, snapshotFor(prices))

	want := got.FairValue * 0.2
	if math.Abs((got.FairMax-got.FairValue)-want) > 1e-9 {
		t.Fatalf("spread = %v, want %v", got.FairMax-got.FairValue, want)
	}
}

func TestScoreConfidenceBounds(t *testing.T) {
	e := NewSignalEngine(SignalConfig{})
	cases := []struct {
		bid    float64
		prices []float64
	}{
		{40, []float64{50, 55, 60}},
		{100, []float64{50, 55, 60, 65, 70, 75, 80, 85, 90, 95}},
		{1, []float64{500, 510, 520}},
	}
	for _, c := range cases {
		got := e.Score(models.Identity{Name: "Derek Jeter"}, c.bid, snapshotFor(c.prices))
		if got.Confidence < 0 || got.Confidence > 1 {
			t.Errorf("confidence %v out of range for bid %v", got.Confidence, c.bid)
		}
	}
}
