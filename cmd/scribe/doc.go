// Package main hosts the scribe CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once, then hands work to the
// internal packages: batch transcription, run history, preflight checks, and
// configuration scaffolding. Keep commands thin and put behaviour in the
// internal packages so it stays testable without a terminal.
package main
