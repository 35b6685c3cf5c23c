package models

import (
	"fmt"
	"path/filepath"
	"strings"
)

const baseURL = "https://huggingface.co/ggerganov/whisper.cpp/resolve/main"

// Info describes one downloadable whisper model.
type Info struct {
	// Name is the short name used in configuration, e.g. "base".
	Name string
	// File is the on-disk filename inside the model directory.
	File string
	// URL is the download location.
	URL string
	// SizeMB is the approximate download size, for display only.
	SizeMB int
}

var registry = []Info{
	{Name: "tiny", SizeMB: 75},
	{Name: "base", SizeMB: 142},
	{Name: "small", SizeMB: 466},
	{Name: "medium", SizeMB: 1500},
	{Name: "large-v3", SizeMB: 2900},
}

func init() {
	for i := range registry {
		registry[i].File = fmt.Sprintf("ggml-%s.bin", registry[i].Name)
		registry[i].URL = fmt.Sprintf("%s/%s", baseURL, registry[i].File)
	}
}

// All returns the known models in size order.
func All() []Info {
	out := make([]Info, len(registry))
	copy(out, registry)
	return out
}

// Lookup finds a model by name.
func Lookup(name string) (Info, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, info := range registry {
		if info.Name == name {
			return info, nil
		}
	}
	return Info{}, fmt.Errorf("unknown model %q (known: %s)", name, knownNames())
}

// Path returns where the model lives inside the given directory.
func (i Info) Path(dir string) string {
	return filepath.Join(dir, i.File)
}

func knownNames() string {
	names := make([]string, len(registry))
	for i, info := range registry {
		names[i] = info.Name
	}
	return strings.Join(names, ", ")
}
