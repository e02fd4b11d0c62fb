package config

import (
	"strings"
)

// CleanFileName removes characters the target file system does not accept.
// Per platform rules live in forbiddenInFileName and leadingTrimSet.
func CleanFileName(in string) string {
	out := strings.TrimLeft(strings.Map(func(sym rune) rune {
		if forbiddenInFileName(sym) {
			return -1
		}
		return sym
	}, in), leadingTrimSet)
	if len(out) == 0 {
		out = "_bad_file_name_"
	}
	return out
}
