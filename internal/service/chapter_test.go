package service

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mastsam10/platform-sub000/internal/chapters"
	domainerrors "github.com/Mastsam10/platform-sub000/internal/errors"
	"github.com/Mastsam10/platform-sub000/internal/sse"
	"github.com/Mastsam10/platform-sub000/internal/store"
)

func TestChapterService_Preview(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.chapters.Preview("Read Ephesians 2:8-9 about grace.", 120)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, chapters.Chapter{
		Type: chapters.KindPassage, Value: "Ephesians 2:8-9", StartSeconds: 120, EndSeconds: 150,
	}, out[0])
	assert.Equal(t, "Grace", out[1].Value)
	assert.Equal(t, 180.0, out[1].EndSeconds)

	empty, err := env.chapters.Preview("", 0)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	for _, bad := range []float64{-1, math.NaN(), math.Inf(1)} {
		_, err := env.chapters.Preview("John 3:16", bad)
		assert.ErrorIs(t, err, domainerrors.ErrValidation)
	}

	// Preview never persists or notifies.
	assert.Empty(t, env.events.types())
}

func TestChapterService_Regenerate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	videoID := env.createVideo(t, "Regenerate")

	_, err := env.chapters.Regenerate(ctx, videoID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = env.transcripts.Ingest(ctx, videoID, IngestInput{Format: "srt", Data: []byte(sermonSRT)})
	require.NoError(t, err)

	// Simulate a lost chapter set.
	require.NoError(t, env.store.ReplaceChapters(ctx, videoID, nil))
	env.events.reset()

	chs, err := env.chapters.Regenerate(ctx, videoID)
	require.NoError(t, err)
	require.Len(t, chs, 2)
	assert.Equal(t, 0, chs[0].Index)
	assert.Equal(t, 1, chs[1].Index)
	assert.Equal(t, []sse.EventType{sse.EventChaptersGenerated}, env.events.types())

	listed, err := env.chapters.List(ctx, videoID)
	require.NoError(t, err)
	assert.Equal(t, chs, listed)
}

func TestChapterService_UnknownVideo(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.chapters.List(ctx, "vid_missing")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = env.chapters.Regenerate(ctx, "vid_missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestChapterService_ListEmpty(t *testing.T) {
	env := newTestEnv(t)
	videoID := env.createVideo(t, "No transcript")

	chs, err := env.chapters.List(context.Background(), videoID)
	require.NoError(t, err)
	assert.NotNil(t, chs)
	assert.Empty(t, chs)
}
