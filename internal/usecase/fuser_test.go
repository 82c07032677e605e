package usecase

import (
	"testing"

	"CardSight/internal/domain/models"
)

func TestFuseZeroConfidenceLeavesTextUnchanged(t *testing.T) {
	text := models.Identity{Name: "Mike Trout", Year: "2011", Grade: "PSA 9"}
	audio := models.SpokenAttributes{Grade: "PSA 10", Year: "2012"}

	fused := NewFuser().Fuse(text, audio, 0, 0)

	if fused.Name != text.Name || fused.Year != text.Year || fused.Grade != text.Grade {
		t.Fatalf("identity changed with zero confidences: %+v", fused)
	}
}

func TestFuseAudioFillsGaps(t *testing.T) {
	text := models.Identity{Name: "Mike Trout"}
	audio := models.SpokenAttributes{Grade: "PSA 10", GradingCompany: "PSA", Year: "2011", SetName: "Topps"}

	fused := NewFuser().Fuse(text, audio, 0.9, 0.2)

	if fused.Grade != "PSA 10" || fused.Year != "2011" || fused.SetName != "Topps" {
		t.Fatalf("audio did not fill gaps: %+v", fused)
	}
	if fused.Provenance["grade"] != models.ChannelAudio {
		t.Errorf("grade provenance = %q, want audio", fused.Provenance["grade"])
	}
}

func TestFuseAudioOverridesWhenDominant(t *testing.T) {
	text := models.Identity{Name: "Mike Trout", Grade: "PSA 8", GradingCompany: "PSA"}
	audio := models.SpokenAttributes{Grade: "PSA 10", GradingCompany: "PSA"}

	// audioWeight = 0.8/(0.3+0.8) ~ 0.73
	fused := NewFuser().Fuse(text, audio, 0.3, 0.8)

	if fused.Grade != "PSA 10" {
		t.Fatalf("grade = %q, want audio override PSA 10", fused.Grade)
	}
}

func TestFuseAudioDoesNotOverrideWhenWeak(t *testing.T) {
	text := models.Identity{Name: "Mike Trout", Grade: "PSA 8"}
	audio := models.SpokenAttributes{Grade: "PSA 10"}

	fused := NewFuser().Fuse(text, audio, 0.8, 0.3)

	if fused.Grade != "PSA 8" {
		t.Fatalf("grade = %q, weak audio must not override", fused.Grade)
	}
	if fused.Provenance["grade"] != models.ChannelText {
		t.Errorf("grade provenance = %q, want text", fused.Provenance["grade"])
	}
}

func TestFuseNameAndItemNumberNeverOverridden(t *testing.T) {
	text := models.Identity{Name: "Mike Trout", ItemNumber: "US175"}
	audio := models.SpokenAttributes{Grade: "PSA 10"}

	fused := NewFuser().Fuse(text, audio, 0.1, 0.9)

	if fused.Name != "Mike Trout" || fused.ItemNumber != "US175" {
		t.Fatalf("name/item number changed: %+v", fused)
	}
}

func TestFuseRecordsAudioConfidence(t *testing.T) {
	fused := NewFuser().Fuse(models.Identity{Name: "X Y"}, models.SpokenAttributes{}, 0.5, 0.6)
	if fused.AudioConfidence != 0.6 {
		t.Fatalf("audio confidence = %v, want 0.6", fused.AudioConfidence)
	}
}

func TestFuseIsPure(t *testing.T) {
	text := models.Identity{Name: "Mike Trout", Grade: "PSA 8"}
	audio := models.SpokenAttributes{Grade: "PSA 10"}
	f := NewFuser()

	a := f.Fuse(text, audio, 0.3, 0.8)
	b := f.Fuse(text, audio, 0.3, 0.8)

	if a.Grade != b.Grade || a.Name != b.Name {
		t.Fatal("same inputs produced different outputs")
	}
	if text.Grade != "PSA 8" {
		t.Fatal("input identity mutated")
	}
}
