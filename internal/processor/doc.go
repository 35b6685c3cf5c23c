// Package processor orchestrates the per-file analysis run: container
// inspection, per-track language analysis, the verdict cache, and the run
// report handed to the CLI.
package processor
