package config

const (
	defaultLogDir   = "~/.local/share/langprobe/logs"
	defaultModelDir = "~/.local/share/langprobe/models"

	defaultFFmpegBinary  = "ffmpeg"
	defaultFFprobeBinary = "ffprobe"
	defaultWhisperBinary = "whisper-cli"

	defaultSampleCount             = 5
	defaultSampleSeconds           = 90
	defaultMinConfidence           = 0.6
	defaultExtendedStartPercent    = 0.10
	defaultExtendedDurationPercent = 0.80
	defaultExtendedMaxSeconds      = 3600

	defaultVADAggressiveness   = 2
	defaultVADFrameMs          = 30
	defaultVADMinVoicedPercent = 10

	defaultWhisperModel = "base"
	defaultMinClipBytes = 1000

	defaultRepetitionConsecutiveRatio = 0.3
	defaultRepetitionDominantRatio    = 0.4

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

func defaultSamplePositions() []float64 {
	return []float64{0.15, 0.25, 0.35, 0.50, 0.65}
}

// Title keywords that mark a track as commentary or bonus material.
func defaultIgnoreKeywords() []string {
	return []string{
		"comment",
		"coment",
		"director",
		"interview",
		"entrevista",
		"behind",
		"making",
		"extras",
		"bonus",
		"special",
		"isolated",
		"music score",
		"soundtrack",
		"instrumental",
	}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:   defaultLogDir,
			ModelDir: defaultModelDir,
		},
		Tools: Tools{
			FFmpeg:  defaultFFmpegBinary,
			FFprobe: defaultFFprobeBinary,
			Whisper: defaultWhisperBinary,
		},
		Analysis: Analysis{
			SampleCount:             defaultSampleCount,
			SampleSeconds:           defaultSampleSeconds,
			SamplePositions:         defaultSamplePositions(),
			MinConfidence:           defaultMinConfidence,
			ExtendedStartPercent:    defaultExtendedStartPercent,
			ExtendedDurationPercent: defaultExtendedDurationPercent,
			ExtendedMaxSeconds:      defaultExtendedMaxSeconds,
		},
		VAD: VAD{
			Aggressiveness:   defaultVADAggressiveness,
			FrameMs:          defaultVADFrameMs,
			MinVoicedPercent: defaultVADMinVoicedPercent,
		},
		Whisper: Whisper{
			Model:        defaultWhisperModel,
			Transcribe:   true,
			MinClipBytes: defaultMinClipBytes,
		},
		Repetition: Repetition{
			ConsecutiveRatio: defaultRepetitionConsecutiveRatio,
			DominantRatio:    defaultRepetitionDominantRatio,
		},
		Cache: Cache{
			Enabled: true,
			Path:    defaultCachePath(),
		},
		Ignore: Ignore{
			TitleKeywords: defaultIgnoreKeywords(),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
