package models

// Recommendation is the closed set of deal recommendations.
type Recommendation string

const (
	StrongBuy        Recommendation = "STRONG_BUY"
	Buy              Recommendation = "BUY"
	WeakBuy          Recommendation = "WEAK_BUY"
	Watch            Recommendation = "WATCH"
	Pass             Recommendation = "PASS"
	InsufficientData Recommendation = "INSUFFICIENT_DATA"
)

// SignalState is the traffic-light rendering of a recommendation.
type SignalState string

const (
	SignalGreen  SignalState = "GREEN"
	SignalYellow SignalState = "YELLOW"
	SignalRed    SignalState = "RED"
	SignalGray   SignalState = "GRAY"
)

// State maps each recommendation to exactly one traffic-light state.
func (r Recommendation) State() SignalState {
	switch r {
	case StrongBuy, Buy:
		return SignalGreen
	case WeakBuy, Watch:
		return SignalYellow
	case Pass:
		return SignalRed
	default:
		return SignalGray
	}
}

// SignalResult is the per-frame scoring output. It is a value object,
// produced fresh every frame and never mutated afterwards.
type SignalResult struct {
	Recommendation  Recommendation `json:"recommendation"`
	Signal          SignalState    `json:"signal"`
	Reason          string         `json:"reason,omitempty"`
	FairValue       float64        `json:"fair_value"`
	FairMin         float64        `json:"fair_min"`
	FairMax         float64        `json:"fair_max"`
	ROIPercent      float64        `json:"roi_percent"`
	Confidence      float64        `json:"confidence"`
	SuggestedMaxBid float64        `json:"suggested_max_bid"`
	KeyFactors      []string       `json:"key_factors,omitempty"`
}
