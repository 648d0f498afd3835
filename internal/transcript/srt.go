package transcript

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// FormatTimestamp renders seconds as an SRT timestamp HH:MM:SS,mmm.
// Milliseconds are truncated, never rounded, from the shortest decimal form
// of seconds, so 61.234 renders as 00:01:01,234 even though its binary value
// sits just below. Negative and non-finite values render as zero.
func FormatTimestamp(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		seconds = 0
	}
	whole, frac, _ := strings.Cut(strconv.FormatFloat(seconds, 'f', -1, 64), ".")
	frac = (frac + "000")[:3]
	total, err := strconv.ParseUint(whole, 10, 64)
	if err != nil {
		total = math.MaxUint32
	}
	millis, _ := strconv.Atoi(frac)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", total/3600, (total/60)%60, total%60, millis)
}

// ParseTimestamp parses HH:MM:SS,mmm (a '.' separator is also accepted).
func ParseTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	clock, millisPart, ok := strings.Cut(strings.ReplaceAll(value, ".", ","), ",")
	if !ok {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(clock, ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	secs, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(millisPart)
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return float64(hours*3600+minutes*60+secs) + float64(millis)/1000, nil
}

// WriteSRT writes one cue per segment, numbered from 1.
func WriteSRT(w io.Writer, segments []Stamp) error {
	bw := bufio.NewWriter(w)
	for i, seg := range segments {
		if _, err := fmt.Fprintf(bw, "%d\n%s --> %s\n%s\n\n",
			i+1, FormatTimestamp(seg.Start), FormatTimestamp(seg.End), seg.Text); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteText writes one line of text per segment.
func WriteText(w io.Writer, segments []Stamp) error {
	bw := bufio.NewWriter(w)
	for _, seg := range segments {
		if _, err := bw.WriteString(seg.Text); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Cue is one parsed SRT entry.
type Cue struct {
	Index int
	Start float64
	End   float64
	Text  string
}

// ParseSRT reads SRT cues. Malformed blocks are an error.
func ParseSRT(r io.Reader) ([]Cue, error) {
	const (
		wantIndex = iota
		wantTiming
		inText
	)
	var (
		cues  []Cue
		cur   Cue
		text  []string
		state = wantIndex
		line  int
	)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line++
		raw := strings.TrimRight(scanner.Text(), "\r")
		if line == 1 {
			raw = strings.TrimPrefix(raw, "\ufeff")
		}
		switch state {
		case wantIndex:
			if strings.TrimSpace(raw) == "" {
				continue
			}
			index, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil {
				return nil, fmt.Errorf("line %d: expected cue index, got %q", line, raw)
			}
			cur = Cue{Index: index}
			state = wantTiming
		case wantTiming:
			startText, endText, ok := strings.Cut(raw, "-->")
			if !ok {
				return nil, fmt.Errorf("line %d: expected timing line, got %q", line, raw)
			}
			start, err := ParseTimestamp(startText)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			end, err := ParseTimestamp(endText)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			cur.Start, cur.End = start, end
			text = text[:0]
			state = inText
		case inText:
			if raw == "" {
				cur.Text = strings.Join(text, "\n")
				cues = append(cues, cur)
				state = wantIndex
				continue
			}
			text = append(text, raw)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read srt: %w", err)
	}
	switch state {
	case wantTiming:
		return nil, fmt.Errorf("cue %d: missing timing line", cur.Index)
	case inText:
		cur.Text = strings.Join(text, "\n")
		cues = append(cues, cur)
	}
	return cues, nil
}

// ValidateCues checks numbering and timing of parsed cues. It returns a list
// of issues; an empty list means the cues are well formed.
func ValidateCues(cues []Cue) []string {
	var issues []string
	for i, cue := range cues {
		if cue.Index != i+1 {
			issues = append(issues, fmt.Sprintf("cue_index_gap: cue %d numbered %d", i+1, cue.Index))
		}
		if cue.End < cue.Start {
			issues = append(issues, fmt.Sprintf("negative_duration: cue %d ends at %s before it starts at %s",
				cue.Index, FormatTimestamp(cue.End), FormatTimestamp(cue.Start)))
		}
		if i > 0 && cue.Start < cues[i-1].Start {
			issues = append(issues, fmt.Sprintf("out_of_order: cue %d starts before cue %d", cue.Index, cues[i-1].Index))
		}
	}
	return issues
}
