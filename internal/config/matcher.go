package config

import (
	"regexp"
	"strings"
)

// matchSkipEntry checks a command word against one skip-list entry.
// Entries support:
//   - Exact match: "lx"
//   - Glob wildcard: "git-*" matches "git-stauts", "git-commt", etc.
func matchSkipEntry(word, entry string) bool {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return false
	}
	if entry == word {
		return true
	}
	if strings.Contains(entry, "*") {
		return matchGlob(word, entry)
	}
	return false
}

// matchGlob matches a word against a pattern with * wildcards by
// converting it to an anchored regexp.
func matchGlob(word, pattern string) bool {
	quoted := regexp.QuoteMeta(pattern)
	quoted = strings.ReplaceAll(quoted, `\*`, `.*`)

	re, err := regexp.Compile("^" + quoted + "$")
	if err != nil {
		return false
	}
	return re.MatchString(word)
}
