// Package asr talks to external speech recognition engines.
//
// Engines receive one chunk of mono samples at a time and answer with
// segment, word, and character timestamps relative to that chunk, encoded as
//
//	{"timestamp": {"segment": [{"segment": "...", "start": 0.0, "end": 1.2}],
//	               "word":    [{"word": "...", "start": 0.0, "end": 0.4}],
//	               "char":    [{"char": "...", "start": 0.0, "end": 0.1}]}}
//
// HTTPEngine posts the chunk as a WAV upload to a local model server and
// CommandEngine runs a configured program on a WAV file in work_dir. A
// response missing any of the three arrays is malformed; an empty array is a
// silent chunk.
package asr
