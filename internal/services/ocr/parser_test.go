package ocr

import (
	"context"
	"image"
	"testing"
)

func TestParseAttributesFullTitle(t *testing.T) {
	id := ParseAttributes("2011 Topps Update Mike Trout Rookie #US175 PSA 10")

	if id.Name != "Mike Trout" {
		t.Fatalf("name = %q, want Mike Trout", id.Name)
	}
	if id.Year != "2011" {
		t.Errorf("year = %q, want 2011", id.Year)
	}
	if id.SetName != "Topps" {
		t.Errorf("set = %q, want Topps", id.SetName)
	}
	if id.Grade != "PSA 10" || id.GradingCompany != "PSA" {
		t.Errorf("grade = %q company = %q", id.Grade, id.GradingCompany)
	}
	if id.ItemNumber != "US175" {
		t.Errorf("item number = %q, want US175", id.ItemNumber)
	}
	if !id.Rookie {
		t.Error("rookie not detected")
	}
}

func TestParseAttributesDecimalGrade(t *testing.T) {
	id := ParseAttributes("2018 Panini Prizm Luka Doncic RC BGS 9.5")

	if id.Grade != "BGS 9.5" {
		t.Errorf("grade = %q, want BGS 9.5", id.Grade)
	}
	if id.SetName != "Panini" {
		t.Errorf("set = %q, want Panini", id.SetName)
	}
	if !id.Rookie {
		t.Error("RC keyword not detected as rookie")
	}
}

func TestParseAttributesSkipsBrandWordsAsNames(t *testing.T) {
	id := ParseAttributes("Upper Deck 1993 Derek Jeter SP Foil")
	if id.Name != "Derek Jeter" {
		t.Fatalf("name = %q, want Derek Jeter", id.Name)
	}
	if id.SetName != "Upper Deck" {
		t.Errorf("set = %q, want Upper Deck", id.SetName)
	}
}

func TestParseAttributesInitialSurname(t *testing.T) {
	id := ParseAttributes("1989 Fleer K. Griffey #548")
	if id.Name != "K. Griffey" {
		t.Fatalf("name = %q, want K. Griffey", id.Name)
	}
}

func TestParseAttributesEmptyText(t *testing.T) {
	id := ParseAttributes("")
	if id.Resolved() {
		t.Fatalf("empty text produced identity %+v", id)
	}
}

func TestParseAuction(t *testing.T) {
	a := ParseAuction("Current bid $1,234.56 with 17 bids 2h left")

	if a.CurrentBid != 1234.56 {
		t.Errorf("bid = %v, want 1234.56", a.CurrentBid)
	}
	if a.BidCount != 17 {
		t.Errorf("bid count = %d, want 17", a.BidCount)
	}
	if a.TimeRemaining != "2h" {
		t.Errorf("time remaining = %q, want 2h", a.TimeRemaining)
	}
}

func TestParseAuctionClockFormat(t *testing.T) {
	a := ParseAuction("ending 0:45 $12")
	if a.TimeRemaining != "0:45" {
		t.Errorf("time remaining = %q, want 0:45", a.TimeRemaining)
	}
	if a.CurrentBid != 12 {
		t.Errorf("bid = %v, want 12", a.CurrentBid)
	}
}

func TestRecognizerStubNeverErrors(t *testing.T) {
	r := NewRecognizer(NewStubEngine(), 0.40, 0.35, testLogger(t))

	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	result := r.Recognize(context.Background(), frameWith(img))

	if result.Engine != "stub" {
		t.Errorf("engine = %q, want stub", result.Engine)
	}
	if result.Confidence != 0 || result.Identity.Resolved() {
		t.Errorf("stub result not empty: %+v", result)
	}
}

func TestRecognizerNilFrame(t *testing.T) {
	r := NewRecognizer(NewStubEngine(), 0.40, 0.35, testLogger(t))
	result := r.Recognize(context.Background(), nil)
	if len(result.Fragments) != 0 {
		t.Fatalf("nil frame produced fragments: %+v", result.Fragments)
	}
}

func TestSelectEngineFallsBackToStub(t *testing.T) {
	e := SelectEngine(NewHTTPEngine("", 0), NewTesseractEngine("/nonexistent/tesseract"))
	if e.Name() != "stub" {
		t.Fatalf("selected %q, want stub", e.Name())
	}
}
