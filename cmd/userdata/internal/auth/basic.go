package auth

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/thalib/userdata/cmd/userdata/internal/constants"
	"github.com/thalib/userdata/cmd/userdata/internal/logging"
	"github.com/thalib/userdata/cmd/userdata/internal/password"
)

// Basic resolves users from "Authorization: Basic base64(email:password)".
type Basic struct {
	Base
	store  UserStore
	hasher password.Hasher
	logger *logging.Logger
}

// NewBasic returns a Basic authenticator. logger may be nil.
func NewBasic(store UserStore, hasher password.Hasher, logger *logging.Logger) *Basic {
	return &Basic{store: store, hasher: hasher, logger: logger}
}

// ExtractBase64 returns the encoded part of a Basic Authorization header.
func ExtractBase64(header string) (string, bool) {
	encoded, ok := strings.CutPrefix(header, constants.AuthSchemeBasic)
	if !ok {
		return "", false
	}
	return encoded, true
}

// DecodeBase64 decodes standard base64 into UTF-8 text.
func DecodeBase64(encoded string) (string, bool) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || !utf8.Valid(raw) {
		return "", false
	}
	return string(raw), true
}

// ExtractCredentials splits decoded credentials on the first ':'. The
// password may itself contain ':'.
func ExtractCredentials(decoded string) (email, secret string, ok bool) {
	return strings.Cut(decoded, ":")
}

// UserFromCredentials looks email up and checks secret against the stored digest.
func (b *Basic) UserFromCredentials(ctx context.Context, email, secret string) *User {
	if b.store == nil || b.hasher == nil {
		return nil
	}

	user, err := b.store.FindByEmail(ctx, email)
	if err != nil {
		if b.logger != nil {
			b.logger.ErrorWithErr("user lookup failed", err)
		}
		return nil
	}
	if user == nil {
		return nil
	}

	if !b.hasher.Verify([]byte(user.Password), secret) {
		return nil
	}
	return user
}

// CurrentUser resolves the caller of r. Any failed step yields nil.
func (b *Basic) CurrentUser(r *http.Request) *User {
	header, ok := b.AuthorizationHeader(r)
	if !ok {
		return nil
	}
	encoded, ok := ExtractBase64(header)
	if !ok {
		return nil
	}
	decoded, ok := DecodeBase64(encoded)
	if !ok {
		return nil
	}
	email, secret, ok := ExtractCredentials(decoded)
	if !ok {
		return nil
	}
	return b.UserFromCredentials(r.Context(), email, secret)
}
