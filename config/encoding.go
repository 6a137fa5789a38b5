package config

import (
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"
)

// NTF chunk names and string payloads are ASCII-compatible text written by
// a Western-European toolchain; Windows1252 decodes/encodes that byte range
// without loss while staying a strict superset of ASCII.
var currentCharMap *charmap.Charmap = charmap.Windows1252

func SetEncoding(name string) error {
	for _, enc := range charmap.All {
		if cm, ok := enc.(*charmap.Charmap); ok {
			if cm.String() == name {
				currentCharMap = cm
				return nil
			}
		}
	}
	return errors.Errorf("failed to find encoding %q", name)
}

func ListEncodings() []string {
	list := make([]string, 0)
	for _, enc := range charmap.All {
		if cm, ok := enc.(*charmap.Charmap); ok {
			list = append(list, cm.String())
		}
	}
	return list
}

func GetEncoding() *charmap.Charmap {
	return currentCharMap
}
