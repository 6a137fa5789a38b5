package utils

import (
	"github.com/tw1tools/ntfcore/config"

	"golang.org/x/text/transform"
)

// BytesToString decodes a byte slice through the configured charmap.
// The caller is responsible for slicing to the exact span of text;
// no null-termination is assumed (NTF string chunks are not
// null-terminated — they occupy their node's entire remaining payload).
func BytesToString(bs []byte) string {
	s, _, err := transform.Bytes(config.GetEncoding().NewDecoder(), bs)
	if err != nil {
		panic(err)
	}
	return string(s)
}

func StringToBytes(s string) []byte {
	bs, _, err := transform.Bytes(config.GetEncoding().NewEncoder(), []byte(s))
	if err != nil {
		panic(err)
	}
	return bs
}
