// Package services defines shared utilities consumed by the transcription
// pipeline and its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, recording names, and stage names for
//     logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent history statuses (failed vs invalid).
//
// Use these helpers when wiring new pipeline steps so error handling and
// observability stay uniform across the batch runner and the CLI.
package services
