package preflight

import (
	"langprobe/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every applicable check for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckBinary("FFmpeg", cfg.Tools.FFmpeg),
		CheckBinary("FFprobe", cfg.Tools.FFprobe),
		CheckBinary("Whisper", cfg.Tools.Whisper),
		CheckModel("Whisper model", cfg.ModelPath()),
		CheckDirectoryAccess("Temp directory", cfg.Paths.TempDir),
	}
	results = append(results, CheckTempSpace("Temp space", cfg.Paths.TempDir))
	return results
}

// AllPassed reports whether every check succeeded.
func AllPassed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}
