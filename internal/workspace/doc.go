// Package workspace manages the per-run scratch directory that holds staged
// audio clips. In debug mode the directory is retained after the run for
// post-mortem inspection instead of being removed.
package workspace
