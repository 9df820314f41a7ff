package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// ErrHashing is returned when a password hash could not be derived.
var ErrHashing = errors.New("cryptox: hashing failed")

// Params are the Argon2id cost parameters encoded into every hash.
type Params struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultParams follows the OWASP minimum for Argon2id (19 MiB, t=2, p=1).
var DefaultParams = Params{
	Memory:      19 * 1024,
	Iterations:  2,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

// Hasher derives and verifies PHC-format Argon2id password hashes. A Hasher
// is immutable once built and safe for concurrent use.
type Hasher struct {
	params Params
	pepper []byte
}

// NewHasher returns a Hasher using DefaultParams. The pepper is mixed into
// every password before hashing and may be empty.
func NewHasher(pepper []byte) *Hasher {
	return NewHasherWithParams(DefaultParams, pepper)
}

// NewHasherWithParams is NewHasher with explicit cost parameters, mostly
// useful for keeping tests fast.
func NewHasherWithParams(params Params, pepper []byte) *Hasher {
	p := make([]byte, len(pepper))
	copy(p, pepper)
	return &Hasher{params: params, pepper: p}
}

// Hash generates a PHC-format Argon2id hash string including a fresh random
// salt and the cost parameters.
func (h *Hasher) Hash(password string) (string, error) {
	if h.params.SaltLength == 0 || h.params.KeyLength == 0 {
		return "", fmt.Errorf("%w: invalid parameters", ErrHashing)
	}

	salt := make([]byte, h.params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("%w: read salt: %w", ErrHashing, err)
	}

	key := argon2.IDKey(
		h.peppered(password),
		salt,
		h.params.Iterations,
		h.params.Memory,
		h.params.Parallelism,
		h.params.KeyLength,
	)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.Memory,
		h.params.Iterations,
		h.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether password matches encodedHash. Malformed hashes and
// mismatches both return false.
func (h *Hasher) Verify(encodedHash, password string) bool {
	ph, err := parsePHC(encodedHash)
	if err != nil {
		return false
	}

	computed := argon2.IDKey(
		h.peppered(password),
		ph.salt,
		ph.iterations,
		ph.memory,
		ph.parallelism,
		uint32(len(ph.key)), // #nosec G115 - key length is bounded by parsePHC
	)

	return subtle.ConstantTimeCompare(computed, ph.key) == 1
}

func (h *Hasher) peppered(password string) []byte {
	b := make([]byte, 0, len(password)+len(h.pepper))
	b = append(b, password...)
	return append(b, h.pepper...)
}

type phcHash struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
	salt        []byte
	key         []byte
}

// maxKeyLength bounds the decoded key so a hostile hash string cannot make
// Verify allocate arbitrarily large outputs.
const maxKeyLength = 1024

// parsePHC splits $argon2id$v=19$m=X,t=Y,p=Z$salt$hash into its parts.
func parsePHC(encoded string) (phcHash, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return phcHash{}, errors.New("invalid hash format: expected 6 parts")
	}
	if parts[1] != "argon2id" {
		return phcHash{}, errors.New("invalid hash format: not argon2id")
	}
	if parts[2] != fmt.Sprintf("v=%d", argon2.Version) {
		return phcHash{}, errors.New("invalid hash format: wrong version")
	}

	var ph phcHash
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &ph.memory, &ph.iterations, &ph.parallelism); err != nil {
		return phcHash{}, fmt.Errorf("invalid hash format: parameters: %w", err)
	}
	if ph.memory == 0 || ph.iterations == 0 || ph.parallelism == 0 {
		return phcHash{}, errors.New("invalid hash format: zero parameter")
	}

	var err error
	if ph.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil || len(ph.salt) == 0 {
		return phcHash{}, errors.New("invalid hash format: salt")
	}
	if ph.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil || len(ph.key) == 0 || len(ph.key) > maxKeyLength {
		return phcHash{}, errors.New("invalid hash format: key")
	}

	return ph, nil
}
