// Package models knows the whisper.cpp ggml model catalog and downloads
// model files on demand.
//
// Downloads go to a temporary file first and are renamed into place, with a
// file lock guarding against concurrent fetches of the same model directory.
package models
