// Package auth decides which requests need authentication and resolves the
// caller of those that do. Path exclusion, header extraction and the Basic
// scheme live here; the HTTP gate that enforces them is in the middleware
// package.
package auth

import "strings"

// RequiresAuth reports whether path needs authentication given the excluded
// path patterns. An empty path or an empty exclusion list always requires
// authentication.
//
// A pattern matches when it equals the path, or the path with a trailing
// slash appended, or when it ends in '*' and the text before the '*' is a
// prefix of the path. Matching is case-sensitive and otherwise literal.
func RequiresAuth(path string, excluded []string) bool {
	if path == "" || len(excluded) == 0 {
		return true
	}

	slashed := path
	if !strings.HasSuffix(path, "/") {
		slashed = path + "/"
	}

	for _, pattern := range excluded {
		if pattern == path || pattern == slashed {
			return false
		}
	}

	for _, pattern := range excluded {
		if prefix, ok := strings.CutSuffix(pattern, "*"); ok && strings.HasPrefix(path, prefix) {
			return false
		}
	}

	return true
}
