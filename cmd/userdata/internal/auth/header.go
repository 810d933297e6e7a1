package auth

import (
	"net/http"

	"github.com/thalib/userdata/cmd/userdata/internal/constants"
)

// HeaderSource is anything that can look up a request header by name.
// http.Header satisfies it.
type HeaderSource interface {
	Get(key string) string
}

// RequestHeaders adapts r to a HeaderSource. A nil request yields a nil source.
func RequestHeaders(r *http.Request) HeaderSource {
	if r == nil {
		return nil
	}
	return r.Header
}

// AuthorizationHeader returns the raw Authorization header value. The bool is
// false when src is nil or the header is absent. The scheme is not parsed here.
//
// A header that is present but empty counts as missing, so the middleware
// answers 401 for it rather than 403.
func AuthorizationHeader(src HeaderSource) (string, bool) {
	if src == nil {
		return "", false
	}
	value := src.Get(constants.HeaderAuthorization)
	if value == "" {
		return "", false
	}
	return value, true
}
