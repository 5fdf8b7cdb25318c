package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/Mastsam10/platform-sub000/internal/logger"
	"github.com/Mastsam10/platform-sub000/internal/sse"
)

// SSEManagerHandle owns the broadcast loop of the event manager.
type SSEManagerHandle struct {
	*sse.Manager
	stop context.CancelFunc
}

// Shutdown drains queued events, then stops the heartbeat loop.
func (h *SSEManagerHandle) Shutdown() error {
	defer h.stop()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Manager.Shutdown(ctx)
}

func ProvideSSEManager(i do.Injector) (*SSEManagerHandle, error) {
	log := do.MustInvoke[*logger.Logger](i).WithField("component", "sse")

	m := sse.NewManager(log.Logger, sse.ManagerOptions{})
	ctx, stop := context.WithCancel(context.Background())
	go m.Start(ctx)

	log.Debug("event manager running")
	return &SSEManagerHandle{Manager: m, stop: stop}, nil
}
