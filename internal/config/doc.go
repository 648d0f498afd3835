// Package config loads, normalizes, and validates scribe configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// SCRIBE_ENGINE_URL. The Config type centralizes every knob the batch runner
// and CLI need, so input/output directories, chunking parameters, and the ASR
// engine endpoint are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
