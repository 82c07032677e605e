package advisor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"CardSight/internal/domain/models"
	applogger "CardSight/pkg/logger"
)

type fakeLLM struct {
	reply string
	err   error
}

func (f *fakeLLM) Generate(_ context.Context, _ string) (string, error) {
	return f.reply, f.err
}

func advisorLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

var trout = models.Identity{
	Name: "Mike Trout", Year: "2011", SetName: "Topps",
	ItemNumber: "US175", Grade: "PSA 10", GradingCompany: "PSA",
}

func TestPlainQuery(t *testing.T) {
	got := PlainQuery(trout)
	want := "Mike Trout 2011 Topps #US175 PSA 10"
	if got != want {
		t.Fatalf("query = %q, want %q", got, want)
	}
}

func TestCompactQueryWithoutProviderFallsBack(t *testing.T) {
	s := NewService(nil, advisorLogger(t))
	q, err := s.CompactQuery(context.Background(), trout)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q != PlainQuery(trout) {
		t.Fatalf("query = %q, want plain fallback", q)
	}
}

func TestCompactQueryTrimsProviderReply(t *testing.T) {
	s := NewService(&fakeLLM{reply: "\"Mike Trout 2011 Topps PSA 10\"\n"}, advisorLogger(t))
	q, err := s.CompactQuery(context.Background(), trout)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q != "Mike Trout 2011 Topps PSA 10" {
		t.Fatalf("query = %q", q)
	}
}

func TestCompactQueryRejectsOverlongReply(t *testing.T) {
	s := NewService(&fakeLLM{reply: strings.Repeat("x", 100)}, advisorLogger(t))
	q, _ := s.CompactQuery(context.Background(), trout)
	if len(q) > maxQueryLen {
		t.Fatalf("query too long: %d chars", len(q))
	}
	if q != PlainQuery(trout) {
		t.Fatalf("query = %q, want plain fallback", q)
	}
}

func TestCompactQueryProviderErrorFallsBack(t *testing.T) {
	s := NewService(&fakeLLM{err: errors.New("rate limited")}, advisorLogger(t))
	q, err := s.CompactQuery(context.Background(), trout)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q != PlainQuery(trout) {
		t.Fatalf("query = %q, want plain fallback", q)
	}
}

func TestAdviseUnavailable(t *testing.T) {
	s := NewService(nil, advisorLogger(t))
	if s.Available() {
		t.Fatal("nil client should be unavailable")
	}
	if _, err := s.Advise(context.Background(), trout, 50, nil); err == nil {
		t.Fatal("expected error when advisor absent")
	}
}
