package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mastsam10/platform-sub000/internal/chapters"
	domainerrors "github.com/Mastsam10/platform-sub000/internal/errors"
)

func TestHealthCheck_Success(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	health := decodeData[HealthResponse](t, resp)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "healthy", health.Components["database"].Status)
	assert.Equal(t, "healthy", health.Components["search"].Status)
	assert.Equal(t, "no connected clients", health.Components["sse"].Message)
	assert.Equal(t, "healthy", health.Components["webhooks"].Status)
	assert.NotEmpty(t, health.Components["database"].Latency)
}

func TestHealthCheck_MissingComponentsDegrade(t *testing.T) {
	s := &Server{}
	out, err := s.handleHealthCheck(t.Context(), nil)
	require.NoError(t, err)
	assert.Equal(t, "degraded", out.Body.Status)
	assert.Equal(t, http.StatusOK, out.Status)
	assert.Len(t, out.Body.Components, 4)
}

func TestHealthCheck_UnhealthyDatabase(t *testing.T) {
	ts := setupTestServer(t)
	require.NoError(t, ts.store.Close())

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusServiceUnavailable, resp.Code)

	env := decodeEnvelope(t, resp)
	assert.False(t, env.Success)
	assert.Contains(t, string(env.Data), `"status":"unhealthy"`)
	assert.Contains(t, string(env.Data), "database ping failed")
}

func TestFormatSSEStatus(t *testing.T) {
	assert.Equal(t, "no connected clients", formatSSEStatus(0))
	assert.Equal(t, "1 connected client", formatSSEStatus(1))
	assert.Equal(t, "12 connected clients", formatSSEStatus(12))
}

func TestListBooks(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/books")
	require.Equal(t, http.StatusOK, resp.Code)
	all := decodeData[BookListResponse](t, resp)
	assert.Equal(t, 66, all.Total)
	assert.Equal(t, "Genesis", all.Books[0].Name)
	assert.Equal(t, "Revelation", all.Books[65].Name)

	resp = ts.api.Get("/api/v1/books?testament=nt")
	require.Equal(t, http.StatusOK, resp.Code)
	nt := decodeData[BookListResponse](t, resp)
	assert.Equal(t, 27, nt.Total)
	assert.Equal(t, "Matthew", nt.Books[0].Name)
	for _, b := range nt.Books {
		assert.Equal(t, chapters.NewTestament, b.Testament)
	}
}

func TestListTopics(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/topics")
	require.Equal(t, http.StatusOK, resp.Code)
	topics := decodeData[TopicListResponse](t, resp)
	require.NotEmpty(t, topics.Topics)
	assert.Equal(t, "faith", topics.Topics[0].Name)
}

func TestPreviewChapters(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/chapters/preview", map[string]any{
		"transcript":          "Open to John 3:16. God so loved the world.",
		"base_offset_seconds": 90,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	preview := decodeData[PreviewChaptersResponse](t, resp)
	require.NotEmpty(t, preview.Chapters)
	assert.Equal(t, chapters.Chapter{
		Type: chapters.KindPassage, Value: "John 3:16", StartSeconds: 90, EndSeconds: 120,
	}, preview.Chapters[0])
}

func TestPreviewChapters_EmptyTranscript(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/chapters/preview", map[string]any{"transcript": ""})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	env := decodeEnvelope(t, resp)
	assert.JSONEq(t, `{"chapters":[]}`, string(env.Data))
}

func TestPreviewChapters_OffsetOutOfRange(t *testing.T) {
	ts := setupTestServer(t)

	for _, offset := range []float64{-1, 1e18} {
		resp := ts.api.Post("/api/v1/chapters/preview", map[string]any{
			"transcript":          "John 3:16",
			"base_offset_seconds": offset,
		})
		require.Equal(t, http.StatusBadRequest, resp.Code, "offset %v", offset)

		env := decodeEnvelope(t, resp)
		assert.False(t, env.Success)
		assert.Equal(t, string(domainerrors.CodeValidation), env.Code)
		assert.Contains(t, string(env.Details), "base_offset_seconds")
	}
}

func TestVideoCRUD(t *testing.T) {
	ts := setupTestServer(t)

	id := ts.createVideo(t, "Sunday Sermon")

	resp := ts.api.Get("/api/v1/videos/" + id)
	require.Equal(t, http.StatusOK, resp.Code)
	v := decodeData[map[string]any](t, resp)
	assert.Equal(t, "Sunday Sermon", v["title"])
	assert.Equal(t, "upload", v["provider"])
	assert.Equal(t, "pending", v["status"])

	resp = ts.api.Patch("/api/v1/videos/"+id, map[string]any{
		"title":  "Easter Sunday",
		"status": "processing",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	v = decodeData[map[string]any](t, resp)
	assert.Equal(t, "Easter Sunday", v["title"])
	assert.Equal(t, "processing", v["status"])

	resp = ts.api.Get("/api/v1/videos?status=processing")
	require.Equal(t, http.StatusOK, resp.Code)
	page := decodeData[struct {
		Videos  []map[string]any `json:"videos"`
		HasMore bool             `json:"has_more"`
	}](t, resp)
	require.Len(t, page.Videos, 1)
	assert.False(t, page.HasMore)

	resp = ts.api.Delete("/api/v1/videos/" + id)
	assert.Equal(t, http.StatusNoContent, resp.Code)

	resp = ts.api.Get("/api/v1/videos/" + id)
	require.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, string(domainerrors.CodeNotFound), decodeEnvelope(t, resp).Code)
}

func TestUpdateVideo_InvalidTransition(t *testing.T) {
	ts := setupTestServer(t)
	id := ts.createVideo(t, "Midweek")

	resp := ts.api.Patch("/api/v1/videos/"+id, map[string]any{"status": "ready"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Patch("/api/v1/videos/"+id, map[string]any{"status": "pending"})
	require.Equal(t, http.StatusConflict, resp.Code)
	assert.Equal(t, string(domainerrors.CodeConflict), decodeEnvelope(t, resp).Code)
}

func TestCreateVideo_BlankTitle(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/videos", map[string]any{"title": "   "})
	require.Equal(t, http.StatusBadRequest, resp.Code)

	env := decodeEnvelope(t, resp)
	assert.False(t, env.Success)
	assert.Equal(t, string(domainerrors.CodeValidation), env.Code)
}

func TestTranscriptIngestAndChapters(t *testing.T) {
	ts := setupTestServer(t)
	id := ts.createVideo(t, "Grace Sermon")

	resp := ts.api.Put("/api/v1/videos/"+id+"/transcript", map[string]any{
		"format":   "srt",
		"content":  sermonSRT,
		"language": "en-us",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	res := decodeData[struct {
		Transcript struct {
			Language string `json:"language"`
			Format   string `json:"format"`
		} `json:"transcript"`
		Chapters  []map[string]any `json:"chapters"`
		Unchanged bool             `json:"unchanged"`
	}](t, resp)
	assert.Equal(t, "en", res.Transcript.Language)
	assert.Equal(t, "srt", res.Transcript.Format)
	assert.False(t, res.Unchanged)
	require.NotEmpty(t, res.Chapters)
	assert.Equal(t, "John 3:16", res.Chapters[0]["value"])
	assert.InDelta(t, 10.0, res.Chapters[0]["start_seconds"], 0.001)

	// Same content again is a no-op.
	resp = ts.api.Put("/api/v1/videos/"+id+"/transcript", map[string]any{
		"format":   "srt",
		"content":  sermonSRT,
		"language": "en",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	again := decodeData[map[string]any](t, resp)
	assert.Equal(t, true, again["unchanged"])

	resp = ts.api.Get("/api/v1/videos/" + id + "/transcript")
	require.Equal(t, http.StatusOK, resp.Code)
	stored := decodeData[map[string]any](t, resp)
	assert.Contains(t, stored["text"], "John 3:16")

	resp = ts.api.Get("/api/v1/videos/" + id + "/chapters")
	require.Equal(t, http.StatusOK, resp.Code)
	list := decodeData[ChapterListResponse](t, resp)
	assert.Equal(t, id, list.VideoID)
	assert.Len(t, list.Chapters, len(res.Chapters))

	resp = ts.api.Post("/api/v1/videos/" + id + "/chapters/regenerate")
	require.Equal(t, http.StatusOK, resp.Code)
	regen := decodeData[ChapterListResponse](t, resp)
	assert.Equal(t, list.Chapters, regen.Chapters)
}

func TestTranscript_Errors(t *testing.T) {
	ts := setupTestServer(t)
	id := ts.createVideo(t, "No Transcript")

	resp := ts.api.Get("/api/v1/videos/" + id + "/transcript")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.api.Post("/api/v1/videos/" + id + "/chapters/regenerate")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.api.Put("/api/v1/videos/"+id+"/transcript", map[string]any{
		"format":  "docx",
		"content": "hello",
	})
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.Code)
	assert.Equal(t, string(domainerrors.CodeUnsupported), decodeEnvelope(t, resp).Code)

	resp = ts.api.Put("/api/v1/videos/"+id+"/transcript", map[string]any{
		"format":  "txt",
		"content": "   ",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	resp = ts.api.Put("/api/v1/videos/missing/transcript", map[string]any{
		"format":  "txt",
		"content": "John 3:16",
	})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestSearch(t *testing.T) {
	ts := setupTestServer(t)
	id := ts.createVideo(t, "Grace Sermon")
	ts.createVideo(t, "Announcements")

	resp := ts.api.Put("/api/v1/videos/"+id+"/transcript", map[string]any{
		"format":  "srt",
		"content": sermonSRT,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Get("/api/v1/search?passage=jn%203:16")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	res := decodeData[struct {
		Total uint64 `json:"total"`
		Hits  []struct {
			ID    string         `json:"id"`
			Video map[string]any `json:"video"`
		} `json:"hits"`
	}](t, resp)
	require.Len(t, res.Hits, 1)
	assert.Equal(t, id, res.Hits[0].ID)
	assert.Equal(t, "Grace Sermon", res.Hits[0].Video["title"])

	resp = ts.api.Get("/api/v1/search?topic=grace&book=john")
	require.Equal(t, http.StatusOK, resp.Code)
	byTopic := decodeData[map[string]any](t, resp)
	assert.EqualValues(t, 1, byTopic["total"])

	resp = ts.api.Post("/api/v1/search/reindex")
	require.Equal(t, http.StatusOK, resp.Code)
	reindex := decodeData[ReindexResponse](t, resp)
	assert.Equal(t, 2, reindex.Indexed)
}

func TestUnknownRoute(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/nope")
	require.Equal(t, http.StatusNotFound, resp.Code)
	env := decodeEnvelope(t, resp)
	assert.False(t, env.Success)
	assert.Equal(t, string(domainerrors.CodeNotFound), env.Code)
}
