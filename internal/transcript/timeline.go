package transcript

import "fmt"

// Stamp is a span of text with start and end times in seconds.
type Stamp struct {
	Text  string
	Start float64
	End   float64
}

// Shift returns the stamp moved later by offset seconds.
func (s Stamp) Shift(offset float64) Stamp {
	return Stamp{Text: s.Text, Start: s.Start + offset, End: s.End + offset}
}

// Timeline holds the global segment, word, and character streams of one
// recording. Each stream is in append order, which is chunk order.
type Timeline struct {
	Segments []Stamp
	Words    []Stamp
	Chars    []Stamp
}

// Empty reports whether the timeline has no segments.
func (t *Timeline) Empty() bool {
	return t == nil || len(t.Segments) == 0
}

// append rebases a chunk result onto the timeline. The result is not modified.
func (t *Timeline) append(res *ChunkResult, offset float64) {
	t.Segments = appendShifted(t.Segments, res.Segments, offset)
	t.Words = appendShifted(t.Words, res.Words, offset)
	t.Chars = appendShifted(t.Chars, res.Chars, offset)
}

func appendShifted(dst, src []Stamp, offset float64) []Stamp {
	for _, stamp := range src {
		dst = append(dst, stamp.Shift(offset))
	}
	return dst
}

// CheckOrder returns an error naming the first stamp whose start precedes
// the previous stamp's start in any stream.
func (t *Timeline) CheckOrder() error {
	if t == nil {
		return nil
	}
	streams := []struct {
		name   string
		stamps []Stamp
	}{
		{"segment", t.Segments},
		{"word", t.Words},
		{"char", t.Chars},
	}
	for _, stream := range streams {
		for i := 1; i < len(stream.stamps); i++ {
			prev, cur := stream.stamps[i-1], stream.stamps[i]
			if cur.Start < prev.Start {
				return fmt.Errorf("%s %d starts at %.3fs before %s %d at %.3fs",
					stream.name, i, cur.Start, stream.name, i-1, prev.Start)
			}
		}
	}
	return nil
}
