// Package language provides the static language code tables used across the
// pipeline.
//
// Two namespaces are involved: the short codes the classifier natively
// reports (ISO 639-1) and the 3-letter ISO 639-2 codes found in container
// metadata. Deprecated bibliographic 3-letter variants (e.g. "fre") are
// normalized to the current terminological codes (e.g. "fra"). All tables
// are built once at init time and never mutated, so they are safe to share
// across goroutines.
package language
