// Package logging centralizes slog construction and the structured field
// vocabulary used across the pipeline.
//
// Components obtain a named logger via NewComponentLogger and attach track
// and sample identity with the With* helpers so every line emitted while a
// sample is in flight carries the same keys regardless of which package
// produced it.
package logging
