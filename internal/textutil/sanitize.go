package textutil

import (
	"strings"
	"unicode"
)

// fileNameReplacer replaces characters that are unsafe in file names on at
// least one common filesystem.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName makes name safe to use as a single path element.
// Separators, colons, and asterisks become dashes; other unsafe characters
// and control characters are removed. Leading dots are dropped so a sample
// can never become a hidden file or "..". The result may be empty.
func SanitizeFileName(name string) string {
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(fileNameReplacer.Replace(name))
	return strings.TrimLeft(name, ".")
}
