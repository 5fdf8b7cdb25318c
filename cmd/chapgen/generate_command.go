package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Mastsam10/platform-sub000/internal/chapters"
	"github.com/Mastsam10/platform-sub000/internal/service"
	"github.com/Mastsam10/platform-sub000/internal/transcript"
)

type generateOptions struct {
	offset        float64
	format        string
	jsonOutput    bool
	wordBoundary  bool
	passageWindow float64
	topicWindow   float64
}

func newGenerateCommand(colorFor func(*cobra.Command) bool) *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate <file|->",
		Short: "Generate chapters from a transcript file or stdin",
		Long: "Reads a transcript (plain text, SRT, WebVTT, Deepgram JSON or json3) and prints\n" +
			"the passage and topic chapters found in it. Timed formats place each chapter\n" +
			"at its cue; plain text places every chapter at --offset.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chs, err := runGenerate(cmd.InOrStdin(), args[0], opts)
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return writeJSON(cmd, chs)
			}
			if len(chs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No chapters found.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), chapterTable(chs, colorFor(cmd)))
			return nil
		},
	}

	cmd.Flags().Float64Var(&opts.offset, "offset", 0, "Base offset in seconds added to every chapter")
	cmd.Flags().StringVar(&opts.format, "format", "auto", "Transcript format: auto, text, srt, vtt, deepgram, json3")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print chapters as JSON")
	cmd.Flags().BoolVar(&opts.wordBoundary, "word-boundary", false, "Match topic keywords as whole words only")
	cmd.Flags().Float64Var(&opts.passageWindow, "passage-window", chapters.DefaultPassageWindow, "Passage chapter length in seconds")
	cmd.Flags().Float64Var(&opts.topicWindow, "topic-window", chapters.DefaultTopicWindow, "Topic chapter length in seconds")

	return cmd
}

func runGenerate(stdin io.Reader, path string, opts generateOptions) ([]chapters.Chapter, error) {
	if err := chapters.ValidateOffset(opts.offset); err != nil {
		return nil, fmt.Errorf("--offset: %w", err)
	}

	format, err := transcript.ParseFormat(opts.format)
	if err != nil {
		return nil, err
	}

	gen, err := chapters.NewGenerator(chapters.Options{
		PassageWindow:     opts.passageWindow,
		TopicWindow:       opts.topicWindow,
		TopicWordBoundary: opts.wordBoundary,
	})
	if err != nil {
		return nil, err
	}

	data, filename, err := readInput(stdin, path)
	if err != nil {
		return nil, err
	}

	parsed, err := transcript.Parse(format, filename, data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", displayName(path), err)
	}

	var chs []chapters.Chapter
	if parsed.Timed {
		segs := parsed.ChapterSegments()
		for i := range segs {
			segs[i].StartSeconds += opts.offset
			if err := chapters.ValidateOffset(segs[i].StartSeconds); err != nil {
				return nil, fmt.Errorf("--offset moves segment %d out of range: %w", i+1, err)
			}
		}
		chs = gen.GenerateFromSegments(segs)
	} else {
		chs = gen.Generate(parsed.Text, opts.offset)
	}
	if chs == nil {
		chs = []chapters.Chapter{}
	}
	return chs, nil
}

// readInput reads path, or stdin when path is "-". The returned filename is a
// format-detection hint and is empty for stdin.
func readInput(stdin io.Reader, path string) ([]byte, string, error) {
	var r io.Reader
	filename := ""
	if path == "-" {
		r = stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, "", err
		}
		defer f.Close()
		r = f
		filename = path
	}

	data, err := io.ReadAll(io.LimitReader(r, service.MaxTranscriptBytes+1))
	if err != nil {
		return nil, "", err
	}
	if len(data) > service.MaxTranscriptBytes {
		return nil, "", errors.New("transcript exceeds " + strconv.Itoa(service.MaxTranscriptBytes) + " bytes")
	}
	return data, filename, nil
}

func displayName(path string) string {
	if path == "-" {
		return "stdin"
	}
	return path
}

func chapterTable(chs []chapters.Chapter, color bool) string {
	rows := make([][]string, len(chs))
	for i, ch := range chs {
		rows[i] = []string{
			formatClock(ch.StartSeconds),
			formatClock(ch.EndSeconds),
			string(ch.Type),
			ch.Value,
		}
	}
	return renderTable(
		[]string{"Start", "End", "Type", "Chapter"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignLeft, alignLeft},
		color,
	)
}

// formatClock renders seconds as H:MM:SS, or M:SS under an hour.
func formatClock(seconds float64) string {
	total := int64(math.Floor(seconds))
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
