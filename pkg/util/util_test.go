package util

import (
	"strconv"
	"testing"
	"time"
)

func TestParseTimeRFC3339(t *testing.T) {
	s := "2026-03-01T10:10:10Z"
	got, ok := ParseTime(s)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.UTC().Format(time.RFC3339) != s {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseTimeUnix(t *testing.T) {
	ts := time.Date(2026, 3, 1, 10, 10, 10, 0, time.UTC).Unix()
	got, ok := ParseTime(strconv.FormatInt(ts, 10))
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Unix() != ts {
		t.Fatalf("unexpected unix %v", got.Unix())
	}
}

func TestParseMoney(t *testing.T) {
	v, ok := ParseMoney("$1,234.56")
	if !ok || v != 1234.56 {
		t.Fatalf("got %v ok=%v", v, ok)
	}
	if _, ok := ParseMoney("not a price"); ok {
		t.Fatalf("expected failure")
	}
	if _, ok := ParseMoney(""); ok {
		t.Fatalf("expected failure on empty")
	}
}

func TestParseIntDefault(t *testing.T) {
	if got := ParseIntDefault("", 7); got != 7 {
		t.Fatalf("got %d", got)
	}
	if got := ParseIntDefault("12", 7); got != 12 {
		t.Fatalf("got %d", got)
	}
}
