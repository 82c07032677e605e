package advisor

import (
	"context"
	"fmt"
	"strings"

	"CardSight/internal/domain/models"
	applogger "CardSight/pkg/logger"
)

const maxQueryLen = 60

// Service implements the optional LLM advisor. Every operation degrades
// to a deterministic result when the provider is absent or failing.
type Service struct {
	client LLMClient
	logger *applogger.Logger
}

func NewService(client LLMClient, l *applogger.Logger) *Service {
	return &Service{client: client, logger: l}
}

func (s *Service) Available() bool { return s != nil && s.client != nil }

// CompactQuery produces a short search query for the identity,
// prioritizing name, year, set, and grade. Falls back to plain
// concatenation when the provider is absent or errors.
func (s *Service) CompactQuery(ctx context.Context, id models.Identity) (string, error) {
	plain := PlainQuery(id)
	if !s.Available() {
		return plain, nil
	}

	prompt := fmt.Sprintf(
		"Turn this collectible card description into an eBay sold-listings search query. "+
			"At most %d characters. Keep player name, year, set, and grade; drop everything else. "+
			"Reply with the query only.\n\n%s",
		maxQueryLen, plain,
	)

	out, err := s.client.Generate(ctx, prompt)
	if err != nil {
		s.logger.Warn("query compaction failed, using plain query", applogger.Error(err))
		return plain, nil
	}

	out = strings.TrimSpace(strings.Trim(strings.TrimSpace(out), `"`))
	if out == "" || len(out) > maxQueryLen {
		return plain, nil
	}
	return out, nil
}

// Advise produces a short narrative recommendation for the current bid.
func (s *Service) Advise(ctx context.Context, id models.Identity, currentBid float64, snap *models.PriceSnapshot) (string, error) {
	if !s.Available() {
		return "", fmt.Errorf("advisor not configured")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are advising a live-auction buyer of sports cards.\n")
	fmt.Fprintf(&b, "Item: %s\n", PlainQuery(id))
	if id.Rookie {
		b.WriteString("This is a rookie card.\n")
	}
	fmt.Fprintf(&b, "Current bid: $%.2f\n", currentBid)
	if snap != nil && snap.Count > 0 {
		fmt.Fprintf(&b, "Recent sold comparables: %d, mean $%.2f, median $%.2f, range $%.2f-$%.2f\n",
			snap.Count, snap.Mean, snap.Median, snap.Min, snap.Max)
	} else {
		b.WriteString("No recent sold comparables found.\n")
	}
	b.WriteString("In 2-3 sentences: is this bid attractive, and what should the buyer watch for?")

	return s.client.Generate(ctx, b.String())
}

// PlainQuery concatenates identity attributes into a search query.
func PlainQuery(id models.Identity) string {
	parts := make([]string, 0, 5)
	if id.Name != "" {
		parts = append(parts, id.Name)
	}
	if id.Year != "" {
		parts = append(parts, id.Year)
	}
	if id.SetName != "" {
		parts = append(parts, id.SetName)
	}
	if id.ItemNumber != "" {
		parts = append(parts, "#"+id.ItemNumber)
	}
	if id.Grade != "" {
		parts = append(parts, id.Grade)
	}
	return strings.Join(parts, " ")
}
