// Package password hashes and verifies user secrets.
//
// Only the digest is ever stored. A digest is self-describing: it embeds the
// random salt and the cost parameters, so Verify needs nothing but the digest
// and the candidate secret. A wrong secret is reported as false from Verify,
// never as an error.
package password
