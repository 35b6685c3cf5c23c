// Package track implements per-track language analysis: scheduling sample
// offsets, running extraction, voice filtering, and classification for each
// sample, and reducing the surviving detections into one verdict.
//
// Samples are independent and may run on a bounded worker pool; the extended
// fallback window runs strictly after every short sample has been judged.
// Per-sample failures never abort a track, they only show up in the
// aggregate statistics.
package track
