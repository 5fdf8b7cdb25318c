package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/Mastsam10/platform-sub000/internal/config"
	"github.com/Mastsam10/platform-sub000/internal/logger"
	"github.com/Mastsam10/platform-sub000/internal/search"
	"github.com/Mastsam10/platform-sub000/internal/service"
	"github.com/Mastsam10/platform-sub000/internal/store"
)

// IndexHandle closes the video index when the injector shuts down.
type IndexHandle struct {
	*search.SearchIndex
}

func (h *IndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex opens the video index under the data directory.
func ProvideSearchIndex(i do.Injector) (*IndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	idx, err := search.NewSearchIndex(search.Options{
		DataPath: cfg.Data.SearchPath(),
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	if n, err := idx.DocumentCount(); err == nil {
		log.Info("video index ready", "documents", n, "path", cfg.Data.SearchPath())
	}
	return &IndexHandle{SearchIndex: idx}, nil
}

func ProvideSearchService(i do.Injector) (*service.SearchService, error) {
	idx := do.MustInvoke[*IndexHandle](i)
	db := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewSearchService(idx.SearchIndex, db.Store, log.Logger), nil
}

// ReindexIfEmpty rebuilds the index in the background when it holds no
// documents but the database holds videos, e.g. after the index
// directory was removed.
func ReindexIfEmpty(i do.Injector) {
	svc := do.MustInvoke[*service.SearchService](i)
	db := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i).WithField("component", "search")

	if n, _ := svc.DocumentCount(); n > 0 {
		return
	}
	page, err := db.ListVideos(context.Background(), store.ListVideosParams{
		PaginationParams: store.PaginationParams{Limit: 1},
	})
	if err != nil || len(page.Items) == 0 {
		return
	}

	log.Info("video index empty, reindexing from database")
	go func() {
		n, err := svc.ReindexAll(context.Background())
		if err != nil {
			log.WithError(err).Error("reindex failed")
			return
		}
		log.Info("reindex finished", "documents", n)
	}()
}
