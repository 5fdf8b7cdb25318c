package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/Mastsam10/platform-sub000/internal/chapters"
	"github.com/Mastsam10/platform-sub000/internal/search"
	"github.com/Mastsam10/platform-sub000/internal/service"
	"github.com/Mastsam10/platform-sub000/internal/sse"
	"github.com/Mastsam10/platform-sub000/internal/store/sqlite"
	"github.com/Mastsam10/platform-sub000/internal/validation"
	"github.com/Mastsam10/platform-sub000/internal/webhook"
)

const (
	testCloudflareSecret = "cf-secret"
	testMuxSecret        = "mux-secret"
	testDeepgramToken    = "dg-token-value"
)

type testServer struct {
	*Server
	api humatest.TestAPI
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	return setupTestServerWithConfig(t, Config{})
}

func setupTestServerWithConfig(t *testing.T, cfg Config) *testServer {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)

	st, err := sqlite.Open(filepath.Join(t.TempDir(), "api.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	idx, err := search.NewSearchIndex(search.Options{DataPath: t.TempDir(), Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	dedupe, err := webhook.NewDeduper(webhook.DeduperOptions{Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { _ = dedupe.Close() })

	gen, err := chapters.NewGenerator(chapters.Options{})
	require.NoError(t, err)

	sseManager := sse.NewManager(logger, sse.ManagerOptions{})
	ctx, cancel := context.WithCancel(context.Background())
	go sseManager.Start(ctx)
	t.Cleanup(cancel)

	v := validation.New()
	searchSvc := service.NewSearchService(idx, st, logger)
	chapterSvc := service.NewChapterService(st, gen, sseManager, searchSvc, logger)
	videoSvc := service.NewVideoService(st, v, sseManager, searchSvc, logger)
	transcriptSvc := service.NewTranscriptService(st, v, chapterSvc, sseManager, logger)
	webhookSvc := service.NewWebhookService(service.WebhookConfig{
		CloudflareSecret: testCloudflareSecret,
		MuxSecret:        testMuxSecret,
		DeepgramToken:    testDeepgramToken,
	}, dedupe, videoSvc, transcriptSvc, logger)

	services := &Services{
		Video:      videoSvc,
		Transcript: transcriptSvc,
		Chapter:    chapterSvc,
		Search:     searchSvc,
		Webhook:    webhookSvc,
	}

	s := NewServer(st, services, sseManager, cfg, logger)
	t.Cleanup(s.Close)

	return &testServer{Server: s, api: humatest.Wrap(t, s.api)}
}

// envelope is the decoded response wrapper.
type envelope struct {
	Version int             `json:"v"`
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
	Details json.RawMessage `json:"details"`
}

func decodeEnvelope(t *testing.T, resp *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env), "body: %s", resp.Body.String())
	return env
}

func decodeData[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	env := decodeEnvelope(t, resp)
	require.True(t, env.Success, "body: %s", resp.Body.String())
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

// createVideo creates a video through the API and returns its ID.
func (ts *testServer) createVideo(t *testing.T, title string) string {
	t.Helper()
	resp := ts.api.Post("/api/v1/videos", map[string]any{"title": title})
	require.Equal(t, 201, resp.Code, "body: %s", resp.Body.String())
	v := decodeData[map[string]any](t, resp)
	id, _ := v["id"].(string)
	require.NotEmpty(t, id)
	return id
}

const sermonSRT = `1
00:00:10,000 --> 00:00:14,000
Turn with me to John 3:16.

2
00:01:00,000 --> 00:01:05,000
His grace is enough.
`

func TestNewServer_SchemaNamesAreUnique(t *testing.T) {
	ts := setupTestServer(t)

	schemas := ts.api.OpenAPI().Components.Schemas.Map()
	require.Contains(t, schemas, "Chapter")
	require.Contains(t, schemas, "VideoChapter")

	resp := ts.api.Get("/openapi.json")
	require.Equal(t, 200, resp.Code)
	require.Contains(t, resp.Body.String(), `"VideoChapter"`)
}
