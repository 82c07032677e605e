package models

import "time"

// Comparable is one historical sale used as pricing evidence.
type Comparable struct {
	Price  float64   `json:"price"`
	Title  string    `json:"title"`
	SoldAt time.Time `json:"sold_at,omitempty"`
}

// PriceSnapshot aggregates comparables for one query. Count == 0 means
// "no data": every statistic is zero and must not be read as a price.
type PriceSnapshot struct {
	Count    int       `json:"count"`
	Prices   []float64 `json:"prices"`
	Mean     float64   `json:"mean"`
	Median   float64   `json:"median"`
	Min      float64   `json:"min"`
	Max      float64   `json:"max"`
	StdDev   float64   `json:"std_dev"`
	Query    string    `json:"query"`
	Filtered bool      `json:"filtered"`
	CachedAt time.Time `json:"cached_at"`
}

// HasData reports whether the snapshot carries usable market evidence.
func (s *PriceSnapshot) HasData() bool { return s != nil && s.Count > 0 }
