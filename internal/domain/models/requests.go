package models

import "strings"

// StartSessionRequest begins analysis of a frame source.
type StartSessionRequest struct {
	Source string `json:"source" validate:"required,min=1"`
}

// StopSessionRequest ends a running session.
type StopSessionRequest struct {
	SessionID string `json:"session_id" validate:"required,uuid4"`
}

// RecommendationRequest asks for an on-demand advisory for a known item.
type RecommendationRequest struct {
	Name       string  `json:"name" validate:"required,min=2"`
	Year       string  `json:"year" validate:"omitempty,len=4,numeric"`
	SetName    string  `json:"set_name"`
	ItemNumber string  `json:"item_number"`
	Grade      string  `json:"grade"`
	Rookie     bool    `json:"rookie"`
	CurrentBid float64 `json:"current_bid" validate:"gte=0"`
}

// Identity converts the request into a fully text-sourced identity.
func (r *RecommendationRequest) Identity() Identity {
	id := Identity{
		Name:       r.Name,
		Year:       r.Year,
		SetName:    r.SetName,
		ItemNumber: r.ItemNumber,
		Grade:      strings.ToUpper(strings.TrimSpace(r.Grade)),
		Rookie:     r.Rookie,
		Confidence: 1.0,
	}
	switch company, _, _ := strings.Cut(id.Grade, " "); company {
	case "PSA", "BGS", "SGC":
		id.GradingCompany = company
	}
	return id
}
