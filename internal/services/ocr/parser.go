package ocr

import (
	"regexp"
	"strconv"
	"strings"

	"CardSight/internal/domain/models"
	"CardSight/pkg/util"
)

var (
	yearRe     = regexp.MustCompile(`\b(19[5-9]\d|20[0-2]\d)\b`)
	gradeRe    = regexp.MustCompile(`(?i)\b(PSA|BGS|SGC)\s*(\d+(?:\.\d)?)\b`)
	itemNumRe  = regexp.MustCompile(`#([A-Za-z0-9-]+)`)
	rookieRe   = regexp.MustCompile(`(?i)\b(rookie card|rookie|rc)\b`)
	nameRe     = regexp.MustCompile(`\b([A-Z][a-z]+|[A-Z]\.)\s+([A-Z][a-z]+)\b`)
	bidRe      = regexp.MustCompile(`\$\s*(\d{1,3}(?:,\d{3})*(?:\.\d{1,2})?|\d+(?:\.\d{1,2})?)`)
	timeLeftRe = regexp.MustCompile(`\b(\d+:\d{2}|\d+\s*[hms])\b`)
	bidCountRe = regexp.MustCompile(`(?i)\b(\d+)\s*bids?\b`)
)

// setVocabulary is the known set/brand names, matched on word boundaries.
var setVocabulary = []string{
	"topps", "panini", "upper deck", "fleer", "donruss", "bowman",
	"prizm", "select", "optic", "mosaic", "chronicles",
}

// nameStopWords are capitalized tokens that look like names but are
// grading or brand vocabulary.
var nameStopWords = map[string]bool{
	"psa": true, "bgs": true, "sgc": true,
	"topps": true, "panini": true, "upper": true, "deck": true,
	"fleer": true, "donruss": true, "bowman": true, "prizm": true,
	"select": true, "optic": true, "mosaic": true, "chronicles": true,
	"rookie": true, "card": true, "mint": true, "gem": true,
}

// ParseAttributes extracts identity attributes from recognized text.
// Confidence fields are left for the caller.
func ParseAttributes(text string) models.Identity {
	var id models.Identity

	if m := yearRe.FindStringSubmatch(text); m != nil {
		id.Year = m[1]
	}
	if m := gradeRe.FindStringSubmatch(text); m != nil {
		id.GradingCompany = strings.ToUpper(m[1])
		id.Grade = id.GradingCompany + " " + m[2]
	}
	if m := itemNumRe.FindStringSubmatch(text); m != nil {
		id.ItemNumber = m[1]
	}
	id.Rookie = rookieRe.MatchString(text)

	lower := strings.ToLower(text)
	for _, set := range setVocabulary {
		if containsWord(lower, set) {
			id.SetName = titleCase(set)
			break
		}
	}

	id.Name = extractName(text)
	return id
}

// ParseAuction extracts auction overlay details from recognized text.
func ParseAuction(text string) models.AuctionInfo {
	var a models.AuctionInfo

	if m := bidRe.FindStringSubmatch(text); m != nil {
		if v, ok := util.ParseMoney("$" + m[1]); ok {
			a.CurrentBid = v
		}
	}
	if m := timeLeftRe.FindStringSubmatch(text); m != nil {
		a.TimeRemaining = strings.ReplaceAll(m[1], " ", "")
	}
	if m := bidCountRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			a.BidCount = n
		}
	}
	return a
}

// extractName returns the first two-token capitalized sequence (or an
// initial followed by a surname) that is not grading or brand vocabulary.
func extractName(text string) string {
	for _, m := range nameRe.FindAllStringSubmatch(text, -1) {
		first := strings.ToLower(strings.TrimSuffix(m[1], "."))
		second := strings.ToLower(m[2])
		if nameStopWords[first] || nameStopWords[second] {
			continue
		}
		return m[1] + " " + m[2]
	}
	return ""
}

func containsWord(haystack, word string) bool {
	idx := 0
	for {
		i := strings.Index(haystack[idx:], word)
		if i < 0 {
			return false
		}
		i += idx
		before := i == 0 || !isWordChar(haystack[i-1])
		afterIdx := i + len(word)
		after := afterIdx >= len(haystack) || !isWordChar(haystack[afterIdx])
		if before && after {
			return true
		}
		idx = i + len(word)
	}
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func isWordChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}
