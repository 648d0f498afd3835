// Package transcript turns a long sample buffer into a single time-aligned
// transcript and writes it out as SRT and plain text.
//
// Scheduler splits the buffer into fixed-size chunks, hands each one to a
// Transcriber in order, and shifts every returned segment, word, and
// character stamp by the chunk's start time so the Timeline reads as if the
// whole recording had been transcribed at once. Emit serialises the segment
// stream. Word and character stamps stay on the Timeline for callers but are
// not written to either artifact.
package transcript
