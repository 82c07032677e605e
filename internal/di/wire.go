//go:build wireinject
// +build wireinject

package di

import (
	"CardSight/pkg/config"
	"CardSight/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Storage and sinks
		ProvidePriceCache,
		ProvideSessionLog,
		ProvideEventPublisher,

		// Recognition services
		ProvideRecognizer,
		ProvideTranscriber,
		ProvideSearcher,
		ProvideAdvisor,

		// Use cases
		ProvideResolver,
		ProvideSignalEngine,
		ProvideSessionManager,
		ProvidePipeline,

		// Delivery
		ProvideHub,
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
