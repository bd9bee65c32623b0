package auth

import (
	"strings"
	"testing"
)

func TestHashPassword_Roundtrip(t *testing.T) {
	hash, err := HashPassword("Sup3rSecret!")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if hash == "Sup3rSecret!" {
		t.Fatalf("password stored in plain text")
	}
	if !VerifyPassword("Sup3rSecret!", hash) {
		t.Fatalf("correct password rejected")
	}
	if VerifyPassword("Sup3rSecret?", hash) {
		t.Fatalf("wrong password accepted")
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	if VerifyPassword("whatever", "not-a-bcrypt-hash") {
		t.Fatalf("malformed hash verified")
	}
	if VerifyPassword("whatever", "") {
		t.Fatalf("empty hash verified")
	}
}

// Passwords identical in their first 72 bytes are interchangeable. That is
// the documented bcrypt truncation rule, not an accident; already issued
// hashes depend on it.
func TestHashPassword_TruncationLaw(t *testing.T) {
	prefix := strings.Repeat("a", 72)
	p1 := prefix + "tail-one"
	p2 := prefix + "completely-different-tail"

	hash, err := HashPassword(p1)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if !VerifyPassword(p2, hash) {
		t.Fatalf("passwords sharing the first 72 bytes must verify interchangeably")
	}

	// Differing within the first 72 bytes must not verify.
	p3 := strings.Repeat("b", 72) + "tail-one"
	if VerifyPassword(p3, hash) {
		t.Fatalf("password differing inside the first 72 bytes accepted")
	}
}

func TestTruncatePassword_MultibyteBoundary(t *testing.T) {
	// 70 ASCII bytes followed by a 3-byte rune: the rune straddles the
	// 72-byte cut and must be dropped entirely, not split.
	p := strings.Repeat("x", 70) + "日本"
	got := truncatePassword(p)
	if got != strings.Repeat("x", 70) {
		t.Fatalf("expected incomplete trailing rune to be dropped, got %q", got)
	}

	hash, err := HashPassword(p)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if !VerifyPassword(strings.Repeat("x", 70), hash) {
		t.Fatalf("truncated form should verify against the full password's hash")
	}
}

func TestTruncatePassword_ShortInputUntouched(t *testing.T) {
	for _, p := range []string{"", "short", "päss", strings.Repeat("a", 72)} {
		if truncatePassword(p) != p {
			t.Fatalf("password %q under the byte limit was modified", p)
		}
	}
}
