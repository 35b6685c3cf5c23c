// Command langprobe detects the spoken language of every audio track in a
// video container and flags tracks whose metadata tag disagrees with the
// detection.
package main
