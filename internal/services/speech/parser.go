package speech

import (
	"regexp"
	"strconv"
	"strings"

	"CardSight/internal/domain/models"
	"CardSight/internal/services/ocr"
)

var spokenPriceRe = regexp.MustCompile(`\$?(\d+(?:\.\d{1,2})?)`)

// ExtractAttributes parses grading commentary from transcribed speech.
// Grade, year, set, and rookie detection share the recognizer's rules.
func ExtractAttributes(text string) models.SpokenAttributes {
	id := ocr.ParseAttributes(text)

	attrs := models.SpokenAttributes{
		Grade:          id.Grade,
		GradingCompany: id.GradingCompany,
		Year:           id.Year,
		SetName:        id.SetName,
		Rookie:         id.Rookie,
	}
	attrs.SpokenPrice = extractSpokenPrice(text)
	return attrs
}

// Score converts parsed attributes into a transcript confidence.
func Score(attrs models.SpokenAttributes) float64 {
	var conf float64
	if attrs.Grade != "" {
		conf += 0.4
	}
	if attrs.Year != "" {
		conf += 0.2
	}
	if attrs.SetName != "" {
		conf += 0.2
	}
	if attrs.SpokenPrice > 0 {
		conf += 0.2
	}
	if conf > 1.0 {
		conf = 1.0
	}
	return conf
}

// extractSpokenPrice returns the first numeric token that is not a
// four-digit year.
func extractSpokenPrice(text string) float64 {
	for _, m := range spokenPriceRe.FindAllStringSubmatch(text, -1) {
		tok := m[1]
		if len(tok) == 4 && !strings.Contains(tok, ".") {
			if y, err := strconv.Atoi(tok); err == nil && y >= 1900 && y <= 2099 {
				continue
			}
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil || v <= 0 {
			continue
		}
		return v
	}
	return 0
}
