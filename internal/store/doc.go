// Package store caches analysis reports in SQLite so unchanged files are
// not re-analyzed. A verdict is keyed by the file path, size, modification
// time, and the model that produced it; any change to the file or the model
// invalidates the cached entry naturally.
package store
