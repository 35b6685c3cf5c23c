// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual audio/video/subtitle stream properties
//   - Track: an audio stream prepared for analysis, with its sequential
//     audio index, assigned language, and title-based ignore decision
//
// Inspect shells out to ffprobe and decodes the response; AudioTracks turns
// the raw streams into the track list the analyzer consumes.
package ffprobe
