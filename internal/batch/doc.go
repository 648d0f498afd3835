// Package batch runs the transcription pipeline over a set of recordings.
//
// For each recording the runner decodes audio, drives the chunk scheduler,
// and emits the SRT and text artifacts. Recordings are independent: one that
// fails writes nothing and the batch moves on. Runs hold an exclusive lock on
// the state directory, get a UUID, and are recorded in the history store.
package batch
