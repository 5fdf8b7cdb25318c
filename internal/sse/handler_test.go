package sse

import (
	"bufio"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mastsam10/platform-sub000/internal/domain"
)

type sseFrame struct {
	id, retry, event, data string
}

func readFrame(t *testing.T, r *bufio.Reader) sseFrame {
	t.Helper()
	var f sseFrame
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		if line == "" {
			return f
		}
		key, value, _ := strings.Cut(line, ": ")
		switch key {
		case "id":
			f.id = value
		case "retry":
			f.retry = value
		case "event":
			f.event = value
		case "data":
			f.data = value
		}
	}
}

func TestHandler_StreamsEvents(t *testing.T) {
	m, _ := newTestManager(t, ManagerOptions{HeartbeatInterval: time.Hour})
	srv := httptest.NewServer(NewHandler(m, slog.New(slog.DiscardHandler)))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"?video_id=vid-1&types=video.updated", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	body := bufio.NewReader(resp.Body)
	hello := readFrame(t, body)
	assert.Equal(t, "connected", hello.event)
	assert.Equal(t, "3000", hello.retry)
	assert.Empty(t, hello.id)
	assert.Contains(t, hello.data, `"video_id":"vid-1"`)
	assert.Contains(t, hello.data, `"types":["video.updated"]`)

	v := &domain.Video{Base: domain.Base{ID: "vid-1"}, Title: "Grace"}
	m.Emit(NewVideoDeletedEvent("vid-1")) // filtered by type
	m.Emit(NewVideoUpdatedEvent(v))

	f := readFrame(t, body)
	assert.Equal(t, string(EventVideoUpdated), f.event)
	assert.Equal(t, "2", f.id)
	assert.Contains(t, f.data, `"title":"Grace"`)
	assert.NotContains(t, f.data, "VideoID")
}

func TestHandler_RejectsNonGet(t *testing.T) {
	m, _ := newTestManager(t, ManagerOptions{})
	rec := httptest.NewRecorder()
	NewHandler(m, slog.New(slog.DiscardHandler)).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodGet, rec.Header().Get("Allow"))
}

func TestParseSubscription(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?video_id=+vid-7+&types=chapters.generated,,+heartbeat", nil)
	sub := ParseSubscription(r)
	assert.Equal(t, "vid-7", sub.VideoID)
	assert.Equal(t, []EventType{EventChaptersGenerated, EventHeartbeat}, sub.Types)

	assert.Equal(t, Subscription{}, ParseSubscription(httptest.NewRequest(http.MethodGet, "/", nil)))
}

func TestFrame_WriteTo(t *testing.T) {
	var b strings.Builder
	require.NoError(t, frame{id: 12, event: "heartbeat", data: map[string]int{"n": 1}}.writeTo(&b))
	assert.Equal(t, "id: 12\nevent: heartbeat\ndata: {\"n\":1}\n\n", b.String())

	assert.Error(t, frame{event: "bad", data: make(chan int)}.writeTo(&b))
}
