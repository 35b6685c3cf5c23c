// Package preflight provides readiness checks for the external tools and
// filesystem paths analysis depends on: the ffmpeg/ffprobe/whisper binaries,
// the model file, and the scratch directory. The CLI surfaces the results
// before a run so a missing dependency fails fast with a clear message.
package preflight
