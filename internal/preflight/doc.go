// Package preflight provides readiness checks for the external tools,
// directories, and ASR engine that scribe depends on.
//
// These checks run in two contexts:
//   - "scribe transcribe" calls RunAll before decoding anything. If a check
//     fails the batch does not start, so a missing engine is reported once
//     instead of once per recording.
//   - "scribe doctor" renders every result as a status line.
package preflight
