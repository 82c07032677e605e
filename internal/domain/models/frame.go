package models

import (
	"image"
	"time"
)

// Frame is one sampled image from the watched stream.
type Frame struct {
	Index      int64
	Image      image.Image
	CapturedAt time.Time
}

// AudioStatus summarizes the speech channel for the viewer.
type AudioStatus struct {
	Active     bool    `json:"active"`
	Transcript string  `json:"transcript,omitempty"`
	Confidence float64 `json:"confidence"`
}

// ResultBundle is the per-frame output handed to transport and the
// session log.
type ResultBundle struct {
	SessionID   string        `json:"session_id"`
	FrameIndex  int64         `json:"frame_index"`
	Status      string        `json:"status,omitempty"`
	Identity    Identity      `json:"identity"`
	Auction     AuctionInfo   `json:"auction"`
	Pricing     PriceSnapshot `json:"pricing"`
	Signal      SignalResult  `json:"signal"`
	Advisory    string        `json:"advisory,omitempty"`
	Audio       AudioStatus   `json:"audio"`
	ProcessedAt time.Time     `json:"processed_at"`
}
