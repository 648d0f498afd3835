// Package notifications pushes batch results to ntfy.
//
// Long batches can run for hours, so the runner reports when a batch starts,
// when a recording fails, and when the batch finishes. With no topic
// configured NewService returns a notifier that does nothing, and callers
// never need to check.
package notifications
