// Package config loads, normalizes, and validates cbbrank configuration.
//
// It supplies repository defaults (including the five stock rank sources),
// expands user paths with tilde shortcuts, reads TOML files, and honours the
// CBBRANK_DATA_DIR and CBBRANK_LOG_LEVEL environment fallbacks. Relative
// input file names resolve against paths.raw_dir and outputs against
// paths.output_dir, so downstream code only ever sees absolute paths.
//
// Always obtain settings through this package so callers receive sanitized
// paths, canonical log formats, and clear validation errors.
package config
