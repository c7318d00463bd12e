package auth

import (
	"context"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher()
	ctx := context.Background()

	hash, err := h.Hash(ctx, "pw1")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if !strings.HasPrefix(hash, "$pbkdf2-sha256$") {
		t.Fatalf("unexpected hash format: %q", hash)
	}

	if !h.Verify(ctx, "pw1", hash) {
		t.Fatalf("Verify must accept the original password")
	}
	if h.Verify(ctx, "pw2", hash) {
		t.Fatalf("Verify must reject a different password")
	}
}

func TestPasswordHasher_Salted(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher()
	ctx := context.Background()

	a, err := h.Hash(ctx, "same")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	b, err := h.Hash(ctx, "same")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if a == b {
		t.Fatalf("two hashes of the same password must differ (random salt)")
	}
	if !h.Verify(ctx, "same", a) || !h.Verify(ctx, "same", b) {
		t.Fatalf("both salted hashes must verify")
	}
}

func TestPasswordHasher_MalformedHashes(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher()
	ctx := context.Background()

	cases := []string{
		"",
		"plain-text",
		"$pbkdf2-sha256$",
		"$pbkdf2-sha256$abc$salt$hash",
		"$pbkdf2-sha256$29000$!!!$hash",
		"$argon2id$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		"$pbkdf2-sha256$0$c2FsdA$aGFzaA",
	}
	for _, c := range cases {
		if h.Verify(ctx, "anything", c) {
			t.Fatalf("Verify must return false for malformed hash %q", c)
		}
	}
}

func TestPasswordHasher_LegacyBcrypt(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher()
	ctx := context.Background()

	legacy, err := bcrypt.GenerateFromPassword([]byte("old-pass"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt error: %v", err)
	}

	if !h.Verify(ctx, "old-pass", string(legacy)) {
		t.Fatalf("legacy bcrypt hash must verify")
	}
	if h.Verify(ctx, "wrong", string(legacy)) {
		t.Fatalf("legacy bcrypt hash must reject wrong password")
	}

	// New hashes are never bcrypt.
	fresh, err := h.Hash(ctx, "old-pass")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if strings.HasPrefix(fresh, "$2") {
		t.Fatalf("Hash must produce the current scheme only, got %q", fresh)
	}
}
