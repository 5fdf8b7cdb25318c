package providers

import (
	"github.com/samber/do/v2"

	"github.com/Mastsam10/platform-sub000/internal/chapters"
	"github.com/Mastsam10/platform-sub000/internal/config"
	"github.com/Mastsam10/platform-sub000/internal/logger"
	"github.com/Mastsam10/platform-sub000/internal/service"
	"github.com/Mastsam10/platform-sub000/internal/validation"
)

// ProvideValidator provides the shared request validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideChapterGenerator provides the chapter generator tuned by config.
func ProvideChapterGenerator(i do.Injector) (*chapters.Generator, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	gen, err := chapters.NewGenerator(chapters.Options{
		PassageWindow:     cfg.Chapters.PassageWindow,
		TopicWindow:       cfg.Chapters.TopicWindow,
		TopicWordBoundary: cfg.Chapters.TopicWordBoundary,
	})
	if err != nil {
		return nil, err
	}

	opts := gen.Options()
	log.Info("Chapter generator ready",
		"books", len(chapters.Books()),
		"topics", len(chapters.Topics()),
		"passage_window", opts.PassageWindow,
		"topic_window", opts.TopicWindow,
		"topic_word_boundary", opts.TopicWordBoundary,
	)
	return gen, nil
}

// ProvideChapterService provides the chapter service.
func ProvideChapterService(i do.Injector) (*service.ChapterService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	gen := do.MustInvoke[*chapters.Generator](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	searchService := do.MustInvoke[*service.SearchService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewChapterService(storeHandle.Store, gen, sseHandle.Manager, searchService, log.Logger), nil
}

// ProvideVideoService provides the video service.
func ProvideVideoService(i do.Injector) (*service.VideoService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	v := do.MustInvoke[*validation.Validator](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	searchService := do.MustInvoke[*service.SearchService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewVideoService(storeHandle.Store, v, sseHandle.Manager, searchService, log.Logger), nil
}

// ProvideTranscriptService provides the transcript ingest service.
func ProvideTranscriptService(i do.Injector) (*service.TranscriptService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	v := do.MustInvoke[*validation.Validator](i)
	chapterService := do.MustInvoke[*service.ChapterService](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTranscriptService(storeHandle.Store, v, chapterService, sseHandle.Manager, log.Logger), nil
}

// ProvideWebhookService provides the provider callback service.
func ProvideWebhookService(i do.Injector) (*service.WebhookService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	deduper := do.MustInvoke[*DeduperHandle](i)
	videoService := do.MustInvoke[*service.VideoService](i)
	transcriptService := do.MustInvoke[*service.TranscriptService](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Webhook.CloudflareSecret == "" {
		log.Warn("CLOUDFLARE_WEBHOOK_SECRET not set, Cloudflare webhooks will be rejected")
	}
	if cfg.Webhook.MuxSecret == "" {
		log.Warn("MUX_WEBHOOK_SECRET not set, Mux webhooks will be rejected")
	}
	if cfg.Webhook.DeepgramToken == "" {
		log.Warn("DEEPGRAM_CALLBACK_TOKEN not set, Deepgram callbacks will be rejected")
	}

	return service.NewWebhookService(service.WebhookConfig{
		CloudflareSecret: cfg.Webhook.CloudflareSecret,
		MuxSecret:        cfg.Webhook.MuxSecret,
		DeepgramToken:    cfg.Webhook.DeepgramToken,
		Tolerance:        cfg.Webhook.Tolerance,
	}, deduper.Deduper, videoService, transcriptService, log.Logger), nil
}
