// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// Copyright 2026 go-tracecore authors.

package tracecore

import (
	"fmt"
	"regexp"
	"strings"
)

// globMatch compiles a glob pattern (where "?" matches one character and
// "*" matches any run of characters) into an anchored, case-insensitive
// regular expression. An empty pattern or "*" matches anything and returns
// nil, the universal matcher.
func globMatch(pattern string) *regexp.Regexp {
	if pattern == "" || pattern == "*" {
		return nil
	}
	escaped := regexp.QuoteMeta(pattern)
	escaped = strings.ReplaceAll(escaped, "\\?", ".")
	escaped = strings.ReplaceAll(escaped, "\\*", ".*")
	return regexp.MustCompile(fmt.Sprintf("(?i)^%s$", escaped))
}

// globMatches reports whether re matches value, treating a nil re (the
// universal matcher) as always matching.
func globMatches(re *regexp.Regexp, value string) bool {
	if re == nil {
		return true
	}
	return re.MatchString(value)
}
