package password

import (
	"strings"
	"testing"
)

func TestHashAndVerify(t *testing.T) {
	digest, err := Hash("correct-horse-battery")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(digest, "$argon2id$v=19$") {
		t.Fatalf("unexpected digest format %q", digest)
	}
	if !Verify("correct-horse-battery", digest) {
		t.Fatalf("valid password rejected")
	}
	if Verify("correct-horse-batterx", digest) {
		t.Fatalf("wrong password accepted")
	}
}

func TestHashIsSalted(t *testing.T) {
	a, err := Hash("same-password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	b, err := Hash("same-password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if a == b {
		t.Fatalf("two digests of the same password should differ")
	}
}

func TestVerifyMalformedDigest(t *testing.T) {
	for _, digest := range []string{
		"",
		"plaintext",
		"$argon2i$v=19$m=65536,t=2,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=65536,t=2,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=2,p=1$!!!$aGFzaA",
	} {
		if Verify("whatever", digest) {
			t.Fatalf("malformed digest %q accepted", digest)
		}
	}
}

func TestHashRejectsEmptyPassword(t *testing.T) {
	if _, err := Hash(""); err == nil {
		t.Fatalf("empty password should not hash")
	}
}
