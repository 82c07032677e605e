package models

import "time"

// SpokenAttributes is the best-effort parse of the auctioneer's commentary.
type SpokenAttributes struct {
	Grade          string  `json:"grade,omitempty"`
	GradingCompany string  `json:"grading_company,omitempty"`
	Year           string  `json:"year,omitempty"`
	SetName        string  `json:"set_name,omitempty"`
	Rookie         bool    `json:"rookie"`
	SpokenPrice    float64 `json:"spoken_price,omitempty"`
}

// Transcript is the latest transcription result published by the speech
// service. It lives until superseded by the next audio chunk and may be
// read by many frames in between.
type Transcript struct {
	Text       string           `json:"text"`
	Attributes SpokenAttributes `json:"attributes"`
	Confidence float64          `json:"confidence"`
	Active     bool             `json:"active"`
	CapturedAt time.Time        `json:"captured_at"`
}
