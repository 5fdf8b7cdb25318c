package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mastsam10/platform-sub000/internal/chapters"
)

func TestVideoStatus_CanTransition(t *testing.T) {
	tests := []struct {
		from, to VideoStatus
		want     bool
	}{
		{VideoStatusPending, VideoStatusProcessing, true},
		{VideoStatusPending, VideoStatusReady, true},
		{VideoStatusProcessing, VideoStatusReady, true},
		{VideoStatusProcessing, VideoStatusErrored, true},
		{VideoStatusErrored, VideoStatusProcessing, true},
		{VideoStatusReady, VideoStatusReady, true},
		{VideoStatusReady, VideoStatusProcessing, false},
		{VideoStatusReady, VideoStatusPending, false},
		{VideoStatusProcessing, VideoStatusPending, false},
		{VideoStatus("bogus"), VideoStatus("bogus"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
}

func TestVideo_SetStatus(t *testing.T) {
	v := &Video{Base: Base{ID: "vid-1"}, Status: VideoStatusPending}
	v.InitTimestamps()
	created := v.UpdatedAt

	require.NoError(t, v.SetStatus(VideoStatusProcessing))
	assert.Equal(t, VideoStatusProcessing, v.Status)
	assert.False(t, v.UpdatedAt.Before(created))

	require.NoError(t, v.SetStatus(VideoStatusReady))
	err := v.SetStatus(VideoStatusProcessing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vid-1")
	assert.Equal(t, VideoStatusReady, v.Status)
}

func TestProvider_Valid(t *testing.T) {
	assert.True(t, ProviderMux.Valid())
	assert.True(t, ProviderCloudflare.Valid())
	assert.True(t, ProviderUpload.Valid())
	assert.False(t, Provider("youtube").Valid())
}

func TestChaptersFromGenerated(t *testing.T) {
	generated := chapters.GenerateChapters("Romans 8:28 and hope", 5)

	out := ChaptersFromGenerated("vid-1", generated)

	require.Len(t, out, 2)
	assert.Equal(t, VideoChapter{
		VideoID: "vid-1", Index: 0, Type: chapters.KindPassage,
		Value: "Romans 8:28", StartSeconds: 5, EndSeconds: 35,
	}, out[0])
	assert.Equal(t, 1, out[1].Index)
	assert.Equal(t, "Hope", out[1].Value)
}
