// Package di provides dependency injection configuration for the sermon platform.
package di

import (
	"github.com/samber/do/v2"

	"github.com/Mastsam10/platform-sub000/internal/chapters"
	"github.com/Mastsam10/platform-sub000/internal/config"
	"github.com/Mastsam10/platform-sub000/internal/di/providers"
	"github.com/Mastsam10/platform-sub000/internal/logger"
	"github.com/Mastsam10/platform-sub000/internal/service"
	"github.com/Mastsam10/platform-sub000/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSlogLogger)
	do.Provide(injector, providers.ProvideValidator)

	// Storage layer
	do.Provide(injector, providers.ProvideSSEManager)
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideDeduper)

	// Search layer
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideSearchService)

	// Business services
	do.Provide(injector, providers.ProvideChapterGenerator)
	do.Provide(injector, providers.ProvideChapterService)
	do.Provide(injector, providers.ProvideVideoService)
	do.Provide(injector, providers.ProvideTranscriptService)
	do.Provide(injector, providers.ProvideWebhookService)

	// Workers
	do.Provide(injector, providers.ProvideInboxWatcher)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services. Providers are lazy, so this is what
// opens the database and starts the background workers.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*validation.Validator](injector)
	_ = do.MustInvoke[*providers.SSEManagerHandle](injector)

	for _, invoke := range []func() error{
		invokeErr[*providers.StoreHandle](injector),
		invokeErr[*providers.DeduperHandle](injector),
		invokeErr[*providers.IndexHandle](injector),
		invokeErr[*service.SearchService](injector),
		invokeErr[*chapters.Generator](injector),
		invokeErr[*service.ChapterService](injector),
		invokeErr[*service.VideoService](injector),
		invokeErr[*service.TranscriptService](injector),
		invokeErr[*service.WebhookService](injector),
		invokeErr[*providers.InboxWatcherHandle](injector),
		invokeErr[*providers.HTTPServerHandle](injector),
	} {
		if err := invoke(); err != nil {
			return err
		}
	}

	providers.ReindexIfEmpty(injector)

	return nil
}

func invokeErr[T any](injector do.Injector) func() error {
	return func() error {
		_, err := do.Invoke[T](injector)
		return err
	}
}
