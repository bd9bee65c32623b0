// Package auth implements the credential and token primitives: bcrypt
// password hashing and the signed JWT codec used for access and refresh
// tokens.
package auth

import (
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// maxPasswordBytes is bcrypt's input limit. Passwords are truncated to this
// many UTF-8 bytes before hashing, so two passwords that differ only after
// byte 72 produce interchangeable hashes. Interoperability with already
// issued hashes depends on this rule staying exactly as it is.
const maxPasswordBytes = 72

// HashPassword hashes password with bcrypt at the default cost after applying
// the truncation rule. Deliberately slow.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(truncatePassword(password)), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches hash. The same truncation
// rule is applied before comparison. Malformed hashes yield false, never an
// error or a panic.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(truncatePassword(password))) == nil
}

// truncatePassword cuts the UTF-8 encoding of password at maxPasswordBytes,
// then drops any incomplete trailing multi-byte sequence so the hashed
// material is well-formed text.
func truncatePassword(password string) string {
	b := []byte(password)
	if len(b) <= maxPasswordBytes {
		return password
	}
	b = b[:maxPasswordBytes]
	for len(b) > 0 {
		r, size := utf8.DecodeLastRune(b)
		if r != utf8.RuneError || size > 1 {
			break
		}
		b = b[:len(b)-1]
	}
	return string(b)
}
