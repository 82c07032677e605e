package usecase

import (
	"CardSight/internal/domain/models"
)

// Fuser merges the text-channel identity with spoken attributes. Pure
// and stateless: the same inputs always produce the same output.
type Fuser struct{}

func NewFuser() *Fuser { return &Fuser{} }

// Fuse weights the audio channel against the text channel. Audio fills
// gaps unconditionally; it overrides grade, year, set, and rookie only
// when its weight exceeds 0.5. Name and item number always stay with
// the text channel.
func (f *Fuser) Fuse(text models.Identity, audio models.SpokenAttributes, textConf, audioConf float64) models.Identity {
	fused := text
	fused.Provenance = make(map[string]string, len(text.Provenance)+4)
	for k, v := range text.Provenance {
		fused.Provenance[k] = v
	}

	if textConf == 0 && audioConf == 0 {
		fused.Provenance = text.Provenance
		return fused
	}

	audioWeight := audioConf / (textConf + audioConf)
	override := audioWeight > 0.5
	fused.AudioConfidence = audioConf

	if audio.Grade != "" && (fused.Grade == "" || override) {
		fused.Grade = audio.Grade
		fused.GradingCompany = audio.GradingCompany
		fused.Provenance["grade"] = models.ChannelAudio
	} else if fused.Grade != "" {
		fused.Provenance["grade"] = models.ChannelText
	}

	if audio.Year != "" && (fused.Year == "" || override) {
		fused.Year = audio.Year
		fused.Provenance["year"] = models.ChannelAudio
	} else if fused.Year != "" {
		fused.Provenance["year"] = models.ChannelText
	}

	if audio.SetName != "" && (fused.SetName == "" || override) {
		fused.SetName = audio.SetName
		fused.Provenance["set"] = models.ChannelAudio
	} else if fused.SetName != "" {
		fused.Provenance["set"] = models.ChannelText
	}

	if audio.Rookie && (!fused.Rookie || override) {
		fused.Rookie = true
		fused.Provenance["rookie"] = models.ChannelAudio
	} else if fused.Rookie {
		fused.Provenance["rookie"] = models.ChannelText
	}

	return fused
}
