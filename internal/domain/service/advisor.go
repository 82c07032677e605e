package service

import (
	"context"

	"CardSight/internal/domain/models"
)

// Advisor is the optional LLM collaborator. Both operations are pure
// functions of their inputs; absence of the advisor must never block
// the frame pipeline.
type Advisor interface {
	Available() bool
	// CompactQuery turns an identity into a short search query
	// (bounded to ~60 characters, prioritizing name/year/set/grade).
	CompactQuery(ctx context.Context, id models.Identity) (string, error)
	// Advise produces a narrative recommendation for the current bid.
	Advise(ctx context.Context, id models.Identity, currentBid float64, snap *models.PriceSnapshot) (string, error)
}
