// Package digest computes the SHA-256 digest of a candidate's decimal text and
// tests it for trailing zero hex characters.
//
// The hot path works on the raw 32-byte sum: a Matcher resolved once per search
// inspects trailing nibbles directly, and hex encoding only happens for the
// rare candidates that match.
package digest
