package models

// Channel names used in Identity provenance.
const (
	ChannelText  = "text"
	ChannelAudio = "audio"
)

// Identity is the fused best guess of the item currently on auction.
// It is produced by the fuser and read-only downstream; a non-empty Name
// is the precondition for treating an identity as resolved.
type Identity struct {
	Name            string            `json:"name"`
	Year            string            `json:"year,omitempty"`
	SetName         string            `json:"set_name,omitempty"`
	ItemNumber      string            `json:"item_number,omitempty"`
	Grade           string            `json:"grade,omitempty"`
	GradingCompany  string            `json:"grading_company,omitempty"`
	Rookie          bool              `json:"rookie"`
	Parallel        string            `json:"parallel,omitempty"`
	Confidence      float64           `json:"confidence"`
	AudioConfidence float64           `json:"audio_confidence"`
	Engine          string            `json:"engine,omitempty"`
	Provenance      map[string]string `json:"provenance,omitempty"`
}

// Resolved reports whether the identity can be priced and scored.
func (id Identity) Resolved() bool { return id.Name != "" }

// TextFragment is one recognized text region with its engine confidence.
type TextFragment struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// RecognizedText is the per-frame output of the text recognizer.
// Lifetime is one frame.
type RecognizedText struct {
	Fragments  []TextFragment `json:"fragments"`
	Text       string         `json:"text"`
	Identity   Identity       `json:"identity"`
	Auction    AuctionInfo    `json:"auction"`
	Confidence float64        `json:"confidence"`
	Engine     string         `json:"engine"`
}

// AuctionInfo holds auction overlay details parsed from the frame.
type AuctionInfo struct {
	CurrentBid    float64 `json:"current_bid"`
	TimeRemaining string  `json:"time_remaining,omitempty"`
	BidCount      int     `json:"bid_count"`
}
