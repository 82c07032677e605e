package usecase

import (
	"testing"
	"time"

	"CardSight/internal/domain/models"
)

func TestContinuityStoresResolvedIdentity(t *testing.T) {
	c := NewContinuity(30 * time.Second)
	now := time.Now()

	id := models.Identity{Name: "Mike Trout"}
	if got := c.Update(id, now); got.Name != "Mike Trout" {
		t.Fatalf("got %+v", got)
	}
}

func TestContinuityBridgesGapWhileFresh(t *testing.T) {
	c := NewContinuity(30 * time.Second)
	now := time.Now()

	c.Update(models.Identity{Name: "Mike Trout", Grade: "PSA 10"}, now)

	got := c.Update(models.Identity{}, now.Add(29*time.Second))
	if got.Name != "Mike Trout" || got.Grade != "PSA 10" {
		t.Fatalf("fresh slot not substituted: %+v", got)
	}
}

func TestContinuityTTLBoundaryIsStale(t *testing.T) {
	c := NewContinuity(30 * time.Second)
	now := time.Now()

	c.Update(models.Identity{Name: "Mike Trout"}, now)

	// age == TTL is stale, not fresh
	got := c.Update(models.Identity{}, now.Add(30*time.Second))
	if got.Resolved() {
		t.Fatalf("stale slot substituted at TTL boundary: %+v", got)
	}
}

func TestContinuityNewItemReplacesSlot(t *testing.T) {
	c := NewContinuity(30 * time.Second)
	now := time.Now()

	c.Update(models.Identity{Name: "Mike Trout"}, now)
	c.Update(models.Identity{Name: "Derek Jeter"}, now.Add(time.Second))

	got := c.Update(models.Identity{}, now.Add(2*time.Second))
	if got.Name != "Derek Jeter" {
		t.Fatalf("slot not replaced: %+v", got)
	}
}

func TestContinuityReset(t *testing.T) {
	c := NewContinuity(30 * time.Second)
	now := time.Now()

	c.Update(models.Identity{Name: "Mike Trout"}, now)
	c.Reset()

	got := c.Update(models.Identity{}, now.Add(time.Second))
	if got.Resolved() {
		t.Fatalf("reset slot still substituted: %+v", got)
	}
}
