package speech

import (
	"testing"

	"CardSight/internal/domain/models"
)

func TestExtractAttributesGradeAndPrice(t *testing.T) {
	attrs := ExtractAttributes("this one is a PSA 10 Topps from 2011, bidding starts at 50 dollars")

	if attrs.Grade != "PSA 10" {
		t.Errorf("grade = %q, want PSA 10", attrs.Grade)
	}
	if attrs.Year != "2011" {
		t.Errorf("year = %q, want 2011", attrs.Year)
	}
	if attrs.SetName != "Topps" {
		t.Errorf("set = %q, want Topps", attrs.SetName)
	}
}

func TestExtractSpokenPriceSkipsYear(t *testing.T) {
	attrs := ExtractAttributes("from 1993, starting at $45")
	if attrs.SpokenPrice != 45 {
		t.Fatalf("spoken price = %v, want 45", attrs.SpokenPrice)
	}
}

func TestScoreAllSignals(t *testing.T) {
	attrs := ExtractAttributes("2011 Topps rookie PSA 10 going for 120 bucks")
	if got := Score(attrs); got != 1.0 {
		t.Fatalf("score = %v, want 1.0 (grade+year+set+price capped)", got)
	}
}

func TestScoreGradeOnly(t *testing.T) {
	attrs := ExtractAttributes("beautiful BGS nine five slab here")
	// no numeric grade token, no signals at all
	if got := Score(attrs); got != 0 {
		t.Fatalf("score = %v, want 0", got)
	}
}

func TestScorePartial(t *testing.T) {
	got := Score(models.SpokenAttributes{Grade: "SGC 9", GradingCompany: "SGC"})
	if got != 0.4 {
		t.Fatalf("score = %v, want 0.4 for grade only", got)
	}
}

func TestScoreEmptyTranscript(t *testing.T) {
	if got := Score(ExtractAttributes("")); got != 0 {
		t.Fatalf("score = %v, want 0", got)
	}
}
