// Package detect turns voice-filtered PCM into language verdicts.
//
// The classifier splits a clip into 30 second windows, asks the model for a
// per-window identification, and aggregates the votes: each language scores
// mean confidence times vote count plus its best single confidence, and the
// winner reports its best confidence. The transcriber wraps model
// transcription with repetition screening so hallucinated output never
// reaches a verdict.
package detect
