// Package naming holds the filename conventions shared with the media backend.
package naming

import (
	"errors"
	"fmt"
	"strings"

	"whisperstudio/config"
)

var (
	// ErrUnexpectedAudioExtension means the audio file does not end in the
	// extension the backend's subtitle naming is derived from
	ErrUnexpectedAudioExtension = errors.New("unexpected audio extension")

	// ErrEmptyName is returned for names with nothing left after normalization
	ErrEmptyName = errors.New("empty filename")
)

// BaseFilename strips any leading path segments from a backend-returned
// filename. Both separators are handled since the backend may run on Windows.
func BaseFilename(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// SubtitleFilename derives the subtitle filename the backend writes for an
// audio file by replacing the trailing audio extension ("speech.mp3" becomes
// "speech.vtt"). The base name is left unchanged.
func SubtitleFilename(audioFile string) (string, error) {
	if audioFile == "" {
		return "", ErrEmptyName
	}
	ext := config.AudioExtension
	if len(audioFile) < len(ext) || !strings.EqualFold(audioFile[len(audioFile)-len(ext):], ext) {
		return "", fmt.Errorf("%w: %q does not end in %s", ErrUnexpectedAudioExtension, audioFile, ext)
	}
	base := audioFile[:len(audioFile)-len(ext)]
	if base == "" {
		return "", fmt.Errorf("%w: %q has no base name", ErrEmptyName, audioFile)
	}
	return base + config.SubtitleExtension, nil
}
