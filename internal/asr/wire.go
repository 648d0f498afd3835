package asr

import (
	"bytes"
	"encoding/json"
	"fmt"

	"scribe/internal/transcript"
)

type wireStamp struct {
	Segment string  `json:"segment"`
	Word    string  `json:"word"`
	Char    string  `json:"char"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
}

type wireTimestamps struct {
	Segment []wireStamp `json:"segment"`
	Word    []wireStamp `json:"word"`
	Char    []wireStamp `json:"char"`
}

type wireResult struct {
	Timestamp *wireTimestamps `json:"timestamp"`
}

// decodeResult parses an engine response. A top-level array is treated as a
// batch of hypotheses and its first entry is used.
func decodeResult(payload []byte) (*transcript.ChunkResult, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty response", transcript.ErrMalformedResult)
	}

	var result wireResult
	if trimmed[0] == '[' {
		var batch []wireResult
		if err := json.Unmarshal(trimmed, &batch); err != nil {
			return nil, fmt.Errorf("%w: decode response: %v", transcript.ErrMalformedResult, err)
		}
		if len(batch) == 0 {
			return nil, fmt.Errorf("%w: empty hypothesis list", transcript.ErrMalformedResult)
		}
		result = batch[0]
	} else if err := json.Unmarshal(trimmed, &result); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", transcript.ErrMalformedResult, err)
	}

	if result.Timestamp == nil {
		return nil, fmt.Errorf("%w: response has no timestamp object", transcript.ErrMalformedResult)
	}
	chunk := &transcript.ChunkResult{
		Segments: convertStamps(result.Timestamp.Segment, func(w wireStamp) string { return w.Segment }),
		Words:    convertStamps(result.Timestamp.Word, func(w wireStamp) string { return w.Word }),
		Chars:    convertStamps(result.Timestamp.Char, func(w wireStamp) string { return w.Char }),
	}
	if err := chunk.Validate(); err != nil {
		return nil, err
	}
	return chunk, nil
}

// convertStamps keeps nil as nil so a missing granularity stays detectable.
func convertStamps(in []wireStamp, text func(wireStamp) string) []transcript.Stamp {
	if in == nil {
		return nil
	}
	out := make([]transcript.Stamp, 0, len(in))
	for _, w := range in {
		out = append(out, transcript.Stamp{Text: text(w), Start: w.Start, End: w.End})
	}
	return out
}
