package transcript_test

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scribe/internal/services"
	"scribe/internal/transcript"
)

func TestFormatTimestamp(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "00:00:00,000"},
		{61.234, "00:01:01,234"},
		{3661.5, "01:01:01,500"},
		{0.9999, "00:00:00,999"},
		{59.9999, "00:00:59,999"},
		{1.0005, "00:00:01,000"},
		{720.1, "00:12:00,100"},
		{86400, "24:00:00,000"},
		{360000.25, "100:00:00,250"},
		{-3, "00:00:00,000"},
		{math.NaN(), "00:00:00,000"},
	}
	for _, tc := range cases {
		if got := transcript.FormatTimestamp(tc.in); got != tc.want {
			t.Errorf("FormatTimestamp(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	got, err := transcript.ParseTimestamp("01:01:01,500")
	if err != nil || got != 3661.5 {
		t.Fatalf("ParseTimestamp = %v, %v", got, err)
	}
	if got, err := transcript.ParseTimestamp(" 00:00:02.250 "); err != nil || got != 2.25 {
		t.Fatalf("ParseTimestamp with period = %v, %v", got, err)
	}
	for _, bad := range []string{"", "00:01", "aa:bb:cc,ddd", "00:00:01"} {
		if _, err := transcript.ParseTimestamp(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestWriteSRTLayout(t *testing.T) {
	var buf bytes.Buffer
	err := transcript.WriteSRT(&buf, []transcript.Stamp{
		{Text: "Hello there.", Start: 0.5, End: 1.75},
		{Text: "General Kenobi.", Start: 61.234, End: 3661.5},
	})
	if err != nil {
		t.Fatalf("WriteSRT: %v", err)
	}
	want := "1\n00:00:00,500 --> 00:00:01,750\nHello there.\n\n" +
		"2\n00:01:01,234 --> 01:01:01,500\nGeneral Kenobi.\n\n"
	if buf.String() != want {
		t.Fatalf("WriteSRT output:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestWriteTextOneLinePerSegment(t *testing.T) {
	var buf bytes.Buffer
	if err := transcript.WriteText(&buf, []transcript.Stamp{{Text: "one"}, {Text: "two"}}); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	if buf.String() != "one\ntwo\n" {
		t.Fatalf("WriteText = %q", buf.String())
	}
}

func TestSRTRoundTripWithinOneMillisecond(t *testing.T) {
	segments := []transcript.Stamp{
		{Text: "first", Start: 0.0004, End: 1.2349},
		{Text: "second", Start: 719.9996, End: 720.0001},
		{Text: "", Start: 1440.5, End: 1441},
		{Text: "fourth", Start: 3599.999, End: 3600.123456},
	}
	var buf bytes.Buffer
	if err := transcript.WriteSRT(&buf, segments); err != nil {
		t.Fatalf("WriteSRT: %v", err)
	}
	cues, err := transcript.ParseSRT(&buf)
	if err != nil {
		t.Fatalf("ParseSRT: %v", err)
	}
	if len(cues) != len(segments) {
		t.Fatalf("parsed %d cues, want %d", len(cues), len(segments))
	}
	for i, cue := range cues {
		seg := segments[i]
		if cue.Index != i+1 || cue.Text != seg.Text {
			t.Fatalf("cue %d = %+v, segment %+v", i, cue, seg)
		}
		for _, pair := range [][2]float64{{cue.Start, seg.Start}, {cue.End, seg.End}} {
			diff := pair[1] - pair[0]
			if diff < -1e-9 || diff >= 0.001 {
				t.Fatalf("cue %d timing %v vs segment %v off by %v", i, pair[0], pair[1], diff)
			}
		}
	}
	if issues := transcript.ValidateCues(cues); len(issues) != 0 {
		t.Fatalf("unexpected issues: %v", issues)
	}
}

func TestParseSRTToleratesCRLFAndBOM(t *testing.T) {
	input := "\ufeff1\r\n00:00:01,000 --> 00:00:02,000\r\nline one\r\nline two\r\n\r\n2\r\n00:00:03,000 --> 00:00:04,000\r\nlast"
	cues, err := transcript.ParseSRT(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseSRT: %v", err)
	}
	if len(cues) != 2 || cues[0].Text != "line one\nline two" || cues[1].Text != "last" {
		t.Fatalf("unexpected cues: %+v", cues)
	}
}

func TestParseSRTRejectsMalformedBlocks(t *testing.T) {
	for _, input := range []string{
		"x\n00:00:01,000 --> 00:00:02,000\ntext\n",
		"1\nnot a timing line\ntext\n",
		"1\n",
	} {
		if _, err := transcript.ParseSRT(strings.NewReader(input)); err == nil {
			t.Fatalf("expected error for %q", input)
		}
	}
}

func TestValidateCuesFlagsProblems(t *testing.T) {
	issues := transcript.ValidateCues([]transcript.Cue{
		{Index: 1, Start: 5, End: 4},
		{Index: 3, Start: 1, End: 2},
	})
	if len(issues) != 3 {
		t.Fatalf("expected 3 issues, got %v", issues)
	}
}

func TestEmitWritesBothArtifacts(t *testing.T) {
	dir := t.TempDir()
	srtPath := filepath.Join(dir, "talk.srt")
	txtPath := filepath.Join(dir, "talk.txt")
	timeline := &transcript.Timeline{
		Segments: []transcript.Stamp{{Text: "hi", Start: 0, End: 1}},
		Words:    []transcript.Stamp{{Text: "hi", Start: 0, End: 1}},
	}
	if err := transcript.Emit(timeline, srtPath, txtPath, transcript.DefaultEmitOptions()); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	srt, _ := os.ReadFile(srtPath)
	txt, _ := os.ReadFile(txtPath)
	if string(srt) != "1\n00:00:00,000 --> 00:00:01,000\nhi\n\n" {
		t.Fatalf("srt = %q", srt)
	}
	if string(txt) != "hi\n" {
		t.Fatalf("text = %q", txt)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 2 {
		t.Fatalf("expected no leftover temp files, got %d entries", len(entries))
	}
}

func TestEmitEmptyTimelineWritesEmptyFiles(t *testing.T) {
	dir := t.TempDir()
	srtPath := filepath.Join(dir, "quiet.srt")
	txtPath := filepath.Join(dir, "quiet.txt")
	if err := transcript.Emit(&transcript.Timeline{}, srtPath, txtPath, transcript.DefaultEmitOptions()); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	for _, path := range []string{srtPath, txtPath} {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat %s: %v", path, err)
		}
		if info.Size() != 0 {
			t.Fatalf("expected zero-byte %s, got %d bytes", path, info.Size())
		}
	}
}

func TestEmitReplacesExistingFile(t *testing.T) {
	dir := t.TempDir()
	srtPath := filepath.Join(dir, "talk.srt")
	if err := os.WriteFile(srtPath, []byte(strings.Repeat("stale\n", 100)), 0o644); err != nil {
		t.Fatal(err)
	}
	timeline := &transcript.Timeline{Segments: []transcript.Stamp{{Text: "new", Start: 1, End: 2}}}
	if err := transcript.Emit(timeline, srtPath, "", transcript.EmitOptions{WriteText: false}); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	data, _ := os.ReadFile(srtPath)
	if strings.Contains(string(data), "stale") {
		t.Fatalf("expected file to be rewritten, got %q", data)
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 1 {
		t.Fatalf("expected only the subtitle to remain, found %d entries", len(entries))
	}
}

func TestEmitSkipsTextWhenDisabled(t *testing.T) {
	dir := t.TempDir()
	txtPath := filepath.Join(dir, "talk.txt")
	timeline := &transcript.Timeline{Segments: []transcript.Stamp{{Text: "x", Start: 0, End: 1}}}
	if err := transcript.Emit(timeline, filepath.Join(dir, "talk.srt"), txtPath, transcript.EmitOptions{}); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if _, err := os.Stat(txtPath); !os.IsNotExist(err) {
		t.Fatalf("expected no text file, stat err=%v", err)
	}
}

func TestEmitFailureLeavesNoFiles(t *testing.T) {
	dir := t.TempDir()
	srtPath := filepath.Join(dir, "talk.srt")
	txtPath := filepath.Join(dir, "missing", "talk.txt")
	timeline := &transcript.Timeline{Segments: []transcript.Stamp{{Text: "x", Start: 0, End: 1}}}

	err := transcript.Emit(timeline, srtPath, txtPath, transcript.DefaultEmitOptions())
	if !errors.Is(err, services.ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("expected empty directory, found %v", names)
	}
}

func TestEmitFailureKeepsPreviousOutputs(t *testing.T) {
	dir := t.TempDir()
	srtPath := filepath.Join(dir, "talk.srt")
	txtPath := filepath.Join(dir, "talk.txt")
	previous := "1\n00:00:00,000 --> 00:00:01,000\nold\n\n"
	if err := os.WriteFile(srtPath, []byte(previous), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(txtPath, "occupied"), 0o755); err != nil {
		t.Fatal(err)
	}
	timeline := &transcript.Timeline{Segments: []transcript.Stamp{{Text: "new", Start: 1, End: 2}}}

	err := transcript.Emit(timeline, srtPath, txtPath, transcript.DefaultEmitOptions())
	if !errors.Is(err, services.ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
	data, err := os.ReadFile(srtPath)
	if err != nil {
		t.Fatalf("previous subtitle lost: %v", err)
	}
	if string(data) != previous {
		t.Fatalf("previous subtitle changed: %q", data)
	}
	entries, _ := os.ReadDir(dir)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	if len(names) != 2 {
		t.Fatalf("expected only talk.srt and talk.txt, found %v", names)
	}
}
