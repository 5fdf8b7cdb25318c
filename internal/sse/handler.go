package sse

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Mastsam10/platform-sub000/internal/http/response"
)

const (
	// retryMillis is the reconnect delay suggested to EventSource clients.
	retryMillis  = 3000
	writeTimeout = 60 * time.Second
)

// Handler streams events at GET /api/v1/events.
//
// Query parameters:
//
//	video_id  only events about this video
//	types     comma separated event types, e.g. "chapters.generated,video.updated"
type Handler struct {
	manager *Manager
	logger  *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(manager *Manager, logger *slog.Logger) *Handler {
	return &Handler{manager: manager, logger: logger}
}

// ParseSubscription reads the subscription from request query parameters.
func ParseSubscription(r *http.Request) Subscription {
	q := r.URL.Query()
	sub := Subscription{VideoID: strings.TrimSpace(q.Get("video_id"))}
	for t := range strings.SplitSeq(q.Get("types"), ",") {
		if t = strings.TrimSpace(t); t != "" {
			sub.Types = append(sub.Types, EventType(t))
		}
	}
	return sub
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		response.Error(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}
	if r.Context().Err() != nil {
		return
	}

	hdr := w.Header()
	hdr.Set("Content-Type", "text/event-stream")
	hdr.Set("Cache-Control", "no-cache")
	hdr.Set("Connection", "keep-alive")
	hdr.Set("X-Accel-Buffering", "no")

	rc := http.NewResponseController(w)
	if err := rc.Flush(); err != nil {
		h.logger.Error("SSE streaming unsupported", slog.String("error", err.Error()))
		response.Error(w, http.StatusInternalServerError, "streaming not supported", h.logger)
		return
	}

	sub := ParseSubscription(r)
	client, err := h.manager.Connect(sub)
	if err != nil {
		h.logger.Error("failed to register SSE client", slog.String("error", err.Error()))
		response.Error(w, http.StatusServiceUnavailable, "event stream closed", h.logger)
		return
	}
	defer h.manager.Disconnect(client.ID)
	log := h.logger.With(slog.String("client_id", client.ID))

	hello := frame{event: "connected", retry: retryMillis, data: map[string]any{
		"client_id": client.ID,
		"video_id":  sub.VideoID,
		"types":     sub.Types,
	}}
	if err := h.send(w, rc, hello); err != nil {
		log.Warn("failed to send SSE greeting", slog.String("error", err.Error()))
		return
	}

	for {
		select {
		case event, ok := <-client.EventChan:
			if !ok {
				log.Info("SSE client closed by manager")
				return
			}
			f := frame{id: event.ID, event: string(event.Type), data: event}
			if err := h.send(w, rc, f); err != nil {
				log.Info("SSE client went away", slog.String("error", err.Error()))
				return
			}
		case <-client.Done:
			log.Info("SSE client closed by manager")
			return
		case <-r.Context().Done():
			return
		}
	}
}

// frame is one server-sent event. Zero id and retry are omitted.
type frame struct {
	id    uint64
	retry int
	event string
	data  any
}

func (f frame) writeTo(w io.Writer) error {
	payload, err := json.Marshal(f.data)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", f.event, err)
	}

	var b strings.Builder
	if f.id != 0 {
		b.WriteString("id: " + strconv.FormatUint(f.id, 10) + "\n")
	}
	if f.retry > 0 {
		b.WriteString("retry: " + strconv.Itoa(f.retry) + "\n")
	}
	b.WriteString("event: " + f.event + "\n")
	b.WriteString("data: ")
	b.Write(payload)
	b.WriteString("\n\n")

	_, err = io.WriteString(w, b.String())
	return err
}

func (h *Handler) send(w http.ResponseWriter, rc *http.ResponseController, f frame) error {
	if err := f.writeTo(w); err != nil {
		return err
	}
	if err := rc.Flush(); err != nil {
		return err
	}
	// Pushed forward after every frame so a stalled reader eventually errors.
	if err := rc.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		h.logger.Debug("SSE write deadline unsupported", slog.String("error", err.Error()))
	}
	return nil
}
