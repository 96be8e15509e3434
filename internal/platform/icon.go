package platform

import (
	"bytes"
	"os"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// IconCandidatePaths returns the per-OS list of icon file locations to try,
// in order. Empty on platforms where the window icon is not file-based.
func IconCandidatePaths() []string {
	return iconCandidatePaths()
}

// ResolveIcon tries each candidate path and returns the first readable PNG,
// falling back to the provided embedded icon bytes.
func ResolveIcon(candidates []string, fallback []byte) []byte {
	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if !bytes.HasPrefix(data, pngMagic) {
			continue
		}
		return data
	}
	return fallback
}
