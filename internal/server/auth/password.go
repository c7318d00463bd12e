package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/dmitrijs2005/foundloss/internal/common"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/sync/semaphore"
)

// PasswordHasher derives salted pbkdf2-sha256 hashes in the passlib modular
// format:
//
//	$pbkdf2-sha256$<rounds>$<salt>$<hash>
//
// Verification also accepts legacy bcrypt hashes ($2a$/$2b$) so imported
// accounts keep working; only the pbkdf2 scheme is ever produced.
//
// Key derivation is CPU-bound on purpose. A weighted semaphore caps the
// number of hashes computed at once so a burst of logins cannot occupy
// every worker.
type PasswordHasher struct {
	rounds     int
	saltLength int
	keyLength  int
	sem        *semaphore.Weighted
}

const (
	defaultRounds     = 29000
	defaultSaltLength = 16
	defaultKeyLength  = 32
)

// ab64 is passlib's adapted base64: the standard alphabet with '+' replaced
// by '.', unpadded. Stored salts and digests use it.
var ab64 = base64.NewEncoding(
	"ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789./",
).WithPadding(base64.NoPadding)

func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{
		rounds:     defaultRounds,
		saltLength: defaultSaltLength,
		keyLength:  defaultKeyLength,
		sem:        semaphore.NewWeighted(int64(runtime.GOMAXPROCS(0))),
	}
}

// Hash derives a fresh salted hash of password.
func (h *PasswordHasher) Hash(ctx context.Context, password string) (string, error) {
	salt := common.GenerateRandByteArray(h.saltLength)

	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	key := pbkdf2.Key([]byte(password), salt, h.rounds, h.keyLength, sha256.New)
	h.sem.Release(1)

	return fmt.Sprintf("$pbkdf2-sha256$%d$%s$%s",
		h.rounds,
		ab64.EncodeToString(salt),
		ab64.EncodeToString(key)), nil
}

// Verify reports whether password matches encodedHash. It never fails on
// malformed input: any parse error, unknown scheme, or mismatch yields
// false.
func (h *PasswordHasher) Verify(ctx context.Context, password, encodedHash string) bool {
	if strings.HasPrefix(encodedHash, "$2a$") || strings.HasPrefix(encodedHash, "$2b$") || strings.HasPrefix(encodedHash, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password)) == nil
	}

	rounds, salt, hash, err := decodePbkdf2Hash(encodedHash)
	if err != nil {
		return false
	}

	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false
	}
	candidate := pbkdf2.Key([]byte(password), salt, rounds, len(hash), sha256.New)
	h.sem.Release(1)

	return subtle.ConstantTimeCompare(hash, candidate) == 1
}

func decodePbkdf2Hash(encodedHash string) (int, []byte, []byte, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 5 || parts[0] != "" {
		return 0, nil, nil, errors.New("invalid hash format")
	}

	if parts[1] != "pbkdf2-sha256" {
		return 0, nil, nil, errors.New("unsupported algorithm")
	}

	var rounds int
	if _, err := fmt.Sscanf(parts[2], "%d", &rounds); err != nil || rounds <= 0 {
		return 0, nil, nil, errors.New("invalid rounds")
	}

	salt, err := ab64.DecodeString(parts[3])
	if err != nil {
		return 0, nil, nil, fmt.Errorf("invalid salt encoding: %w", err)
	}

	hash, err := ab64.DecodeString(parts[4])
	if err != nil {
		return 0, nil, nil, fmt.Errorf("invalid hash encoding: %w", err)
	}
	if len(hash) == 0 {
		return 0, nil, nil, errors.New("empty hash")
	}

	return rounds, salt, hash, nil
}
