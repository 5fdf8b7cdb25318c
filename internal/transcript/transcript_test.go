package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSRT = "1\r\n00:00:01,000 --> 00:00:04,500\r\n<i>Turn with me</i> to\r\nJohn 3:16.\r\n\r\n" +
	"2\r\n00:01:05,250 --> 00:01:09,000\r\nWe have hope.\r\n\r\n" +
	"3\r\n00:01:10,000 --> 00:01:11,000\r\n{\\an8}   \r\n"

const sampleVTT = `WEBVTT
Kind: captions

NOTE recorded live

intro
00:05.000 --> 00:08.000 align:start position:10%
Good morning

01:00:00.500 --> 01:00:03.000
Read <c.yellow>Romans 8:28</c>
`

const sampleDeepgram = `{
  "metadata": {"request_id": "req-123", "duration": 61.2},
  "results": {
    "channels": [{"alternatives": [{"transcript": "whole thing"}]}],
    "utterances": [
      {"start": 0.5, "end": 3.1, "transcript": "Welcome to church."},
      {"start": 40.0, "end": 45.5, "transcript": "Open to Ephesians 2:8-9."}
    ]
  }
}`

const sampleJSON3 = `{"wireMagic":"pb3","events":[
  {"tStartMs":0,"dDurationMs":2000,"segs":[{"utf8":"grace "},{"utf8":"alone"}]},
  {"tStartMs":2000,"dDurationMs":10,"aAppend":1,"segs":[{"utf8":"\n"}]},
  {"tStartMs":2500,"dDurationMs":1500,"segs":[{"utf8":"Titus 2:11"}]},
  {"dDurationMs":1}
]}`

func TestParseSRT(t *testing.T) {
	tr, err := ParseSRT([]byte(sampleSRT))
	require.NoError(t, err)

	assert.Equal(t, FormatSRT, tr.Format)
	assert.True(t, tr.Timed)
	require.Len(t, tr.Segments, 2)
	assert.Equal(t, Segment{Start: 1, End: 4.5, Text: "Turn with me to John 3:16."}, tr.Segments[0])
	assert.Equal(t, Segment{Start: 65.25, End: 69, Text: "We have hope."}, tr.Segments[1])
	assert.Equal(t, "Turn with me to John 3:16. We have hope.", tr.Text)
}

func TestParseSRT_Malformed(t *testing.T) {
	_, err := ParseSRT([]byte("1\n00:00:01 --> 00:00:02\nhello\n"))
	require.ErrorIs(t, err, ErrMalformed)
	assert.Contains(t, err.Error(), "cue 1")

	_, err = ParseSRT([]byte("1\nhello\n"))
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = ParseSRT([]byte("1\n00:00:05,000 --> 00:00:02,000\nbackwards\n"))
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = ParseSRT([]byte("1\n999999:00:00,000 --> 999999:00:01,000\nfar too late\n"))
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = ParseSRT([]byte("  \n\n "))
	assert.ErrorIs(t, err, ErrEmptyTranscript)
}

func TestParseVTT(t *testing.T) {
	tr, err := ParseVTT([]byte(sampleVTT))
	require.NoError(t, err)

	require.Len(t, tr.Segments, 2)
	assert.Equal(t, Segment{Start: 5, End: 8, Text: "Good morning"}, tr.Segments[0])
	assert.Equal(t, Segment{Start: 3600.5, End: 3603, Text: "Read Romans 8:28"}, tr.Segments[1])
}

func TestParseVTT_MissingHeader(t *testing.T) {
	_, err := ParseVTT([]byte("00:05.000 --> 00:08.000\nhello\n"))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestParseDeepgram_Utterances(t *testing.T) {
	tr, err := ParseDeepgram([]byte(sampleDeepgram))
	require.NoError(t, err)

	assert.Equal(t, "req-123", tr.SourceID)
	assert.InDelta(t, 61.2, tr.DurationSeconds, 1e-9)
	require.Len(t, tr.Segments, 2)
	assert.InDelta(t, 40.0, tr.Segments[1].Start, 0)
	assert.Equal(t, "Open to Ephesians 2:8-9.", tr.Segments[1].Text)
}

func TestParseDeepgram_Paragraphs(t *testing.T) {
	data := `{"metadata":{"request_id":"r"},"results":{"channels":[{"alternatives":[{
		"transcript":"ignored",
		"paragraphs":{"paragraphs":[{"sentences":[
			{"text":"First sentence.","start":1,"end":2},
			{"text":"Second sentence.","start":2,"end":4}]}]}}]}]}}`

	tr, err := ParseDeepgram([]byte(data))
	require.NoError(t, err)
	require.Len(t, tr.Segments, 2)
	assert.Equal(t, "First sentence. Second sentence.", tr.Text)
}

func TestParseDeepgram_TranscriptOnly(t *testing.T) {
	data := `{"results":{"channels":[{"alternatives":[{"transcript":"Psalm 23:1 the lord is my shepherd",
		"words":[{"word":"psalm","start":0.1,"end":0.4},{"word":"shepherd","start":3,"end":3.6}]}]}]}}`

	tr, err := ParseDeepgram([]byte(data))
	require.NoError(t, err)
	require.Len(t, tr.Segments, 1)
	assert.InDelta(t, 3.6, tr.Segments[0].End, 1e-9)
}

func TestParseDeepgram_Errors(t *testing.T) {
	_, err := ParseDeepgram([]byte(""))
	assert.ErrorIs(t, err, ErrEmptyTranscript)

	_, err = ParseDeepgram([]byte("{not json"))
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = ParseDeepgram([]byte(`{"results":{}}`))
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = ParseDeepgram([]byte(`{"results":{"channels":[{"alternatives":[{"transcript":"  "}]}]}}`))
	assert.ErrorIs(t, err, ErrEmptyTranscript)
}

func TestParseJSON3(t *testing.T) {
	tr, err := ParseJSON3([]byte(sampleJSON3))
	require.NoError(t, err)

	require.Len(t, tr.Segments, 2)
	assert.Equal(t, Segment{Start: 0, End: 2, Text: "grace alone"}, tr.Segments[0])
	assert.Equal(t, Segment{Start: 2.5, End: 4, Text: "Titus 2:11"}, tr.Segments[1])
}

func TestParsePlain(t *testing.T) {
	tr, err := ParsePlain([]byte("  Hello\n\tchurch  "))
	require.NoError(t, err)

	assert.False(t, tr.Timed)
	assert.Equal(t, "Hello church", tr.Text)
	assert.Equal(t, []Segment{{Text: "Hello church"}}, tr.Segments)

	_, err = ParsePlain([]byte(" \n "))
	assert.ErrorIs(t, err, ErrEmptyTranscript)
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     string
		want     Format
	}{
		{"srt extension", "abc.SRT", "", FormatSRT},
		{"vtt extension", "abc.vtt", "", FormatVTT},
		{"txt extension", "abc.txt", "1\n00:00:01,000 --> 00:00:02,000\n", FormatText},
		{"vtt sniff", "", "\ufeffWEBVTT\n\n", FormatVTT},
		{"srt sniff", "upload", "1\n00:00:01,000 --> 00:00:02,000\nhi", FormatSRT},
		{"deepgram sniff", "cb.json", `{"metadata":{},"results":{}}`, FormatDeepgram},
		{"json3 sniff", "cb.json", `{"events":[]}`, FormatJSON3},
		{"plain", "", "just words", FormatText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFormat(tt.filename, []byte(tt.data)))
		})
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"":         FormatAuto,
		"auto":     FormatAuto,
		"SRT":      FormatSRT,
		"webvtt":   FormatVTT,
		"txt":      FormatText,
		"deepgram": FormatDeepgram,
		"json3":    FormatJSON3,
	} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("docx")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestParse_Auto(t *testing.T) {
	tr, err := Parse(FormatAuto, "sermon.srt", []byte(sampleSRT))
	require.NoError(t, err)
	assert.Equal(t, FormatSRT, tr.Format)

	_, err = Parse(Format("pdf"), "", []byte("x"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestChapterSegments(t *testing.T) {
	tr, err := ParseSRT([]byte(sampleSRT))
	require.NoError(t, err)

	segs := tr.ChapterSegments()
	require.Len(t, segs, 2)
	assert.InDelta(t, 65.25, segs[1].StartSeconds, 0)
	assert.Equal(t, "We have hope.", segs[1].Text)
}

func TestClean(t *testing.T) {
	assert.Equal(t, "Tom & Jerry", Clean("<b>Tom</b> &amp; Jerry"))
	assert.Equal(t, "centered", Clean(`{\an8}centered`))
	assert.Equal(t, "", Clean("<i></i>"))
}
