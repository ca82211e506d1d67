package util

import (
	"errors"
	"path"
	"strings"
	"unicode"
)

// MaxFileNameRunes bounds stored file names.
const MaxFileNameRunes = 120

// ErrInvalidFileName is returned when nothing usable remains of a file name.
var ErrInvalidFileName = errors.New("invalid file name")

// SanitizeFileName keeps the base name of an upload, drops control characters
// and path separators, and rejects names that are only dots.
func SanitizeFileName(name string) (string, error) {
	s := strings.ReplaceAll(strings.TrimSpace(name), "\\", "/")
	s = strings.ReplaceAll(path.Base(s), "/", "_")
	s = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsSpace(r):
			return '_'
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, s)
	if strings.Trim(s, "._") == "" {
		return "", ErrInvalidFileName
	}
	if runes := []rune(s); len(runes) > MaxFileNameRunes {
		ext := path.Ext(s)
		if len([]rune(ext)) >= MaxFileNameRunes {
			ext = ""
		}
		s = string(runes[:MaxFileNameRunes-len([]rune(ext))]) + ext
	}
	return s, nil
}
