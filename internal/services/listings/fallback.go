package listings

import (
	"context"

	"CardSight/internal/domain/models"
	"CardSight/internal/domain/repository"
	applogger "CardSight/pkg/logger"
)

// FallbackSearcher tries the primary source and degrades to the
// fallback when the primary errors or returns nothing.
type FallbackSearcher struct {
	primary  repository.ListingSearcher
	fallback repository.ListingSearcher
	logger   *applogger.Logger
}

func NewFallbackSearcher(primary, fallback repository.ListingSearcher, l *applogger.Logger) *FallbackSearcher {
	return &FallbackSearcher{primary: primary, fallback: fallback, logger: l}
}

func (f *FallbackSearcher) Search(ctx context.Context, query string) ([]models.Comparable, error) {
	comps, err := f.primary.Search(ctx, query)
	if err == nil && len(comps) > 0 {
		return comps, nil
	}

	if f.fallback == nil {
		return comps, err
	}

	if err != nil {
		f.logger.Warn("primary listings source failed, trying fallback",
			applogger.String("primary", f.primary.Name()),
			applogger.Error(err),
		)
	}
	return f.fallback.Search(ctx, query)
}

func (f *FallbackSearcher) Name() string {
	if f.fallback == nil {
		return f.primary.Name()
	}
	return f.primary.Name() + "+" + f.fallback.Name()
}
