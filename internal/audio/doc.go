// Package audio turns recordings on disk into mono float32 sample buffers at
// the transcription sample rate, and writes buffers back out as WAV so chunks
// can be handed to external ASR engines.
//
// Two decoders exist: FFmpegDecoder accepts anything ffmpeg can read, and
// WAVDecoder handles WAV input in-process. NewDecoder picks between them from
// the configured decoder kind.
package audio
