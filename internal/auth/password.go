package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const (
	SchemeHMACSHA256 = "hmac-sha256"
	SchemeArgon2id   = "argon2id"

	saltBytes = 16
)

// Hasher derives a password digest from a salt and a plaintext password.
// Implementations are deterministic.
type Hasher interface {
	Scheme() string
	Hash(salt, password string) string
}

// HMACHasher is HMAC-SHA256 keyed with the hex salt, hex-encoded. It is the
// scheme used by every record created before scheme tagging existed.
type HMACHasher struct{}

func (HMACHasher) Scheme() string { return SchemeHMACSHA256 }

func (HMACHasher) Hash(salt, password string) string {
	mac := hmac.New(sha256.New, []byte(salt))
	mac.Write([]byte(password))
	return hex.EncodeToString(mac.Sum(nil))
}

// Argon2Hasher derives the digest with argon2id.
type Argon2Hasher struct {
	Time    uint32
	Memory  uint32
	Threads uint8
	KeyLen  uint32
}

// DefaultArgon2 mirrors the RFC 9106 second recommended option.
var DefaultArgon2 = Argon2Hasher{Time: 1, Memory: 64 * 1024, Threads: 4, KeyLen: 32}

func (Argon2Hasher) Scheme() string { return SchemeArgon2id }

func (a Argon2Hasher) Hash(salt, password string) string {
	key := argon2.IDKey([]byte(password), []byte(salt), a.Time, a.Memory, a.Threads, a.KeyLen)
	return hex.EncodeToString(key)
}

// GenerateSalt returns 16 random bytes, hex-encoded.
func GenerateSalt() (string, error) {
	buf := make([]byte, saltBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random salt: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Credential is the persisted form of a password.
type Credential struct {
	Salt   string
	Hash   string
	Scheme string
}

// Passwords derives new credentials with the configured scheme and verifies
// stored credentials with whichever scheme produced them.
type Passwords struct {
	current Hasher
	known   map[string]Hasher
}

// NewPasswords selects the scheme used for newly derived credentials.
func NewPasswords(scheme string) (*Passwords, error) {
	known := map[string]Hasher{
		SchemeHMACSHA256: HMACHasher{},
		SchemeArgon2id:   DefaultArgon2,
	}
	current, ok := known[scheme]
	if !ok {
		return nil, fmt.Errorf("unknown password scheme %q", scheme)
	}
	return &Passwords{current: current, known: known}, nil
}

// Derive generates a fresh salt and hashes password with it.
func (p *Passwords) Derive(password string) (Credential, error) {
	salt, err := GenerateSalt()
	if err != nil {
		return Credential{}, err
	}
	return Credential{
		Salt:   salt,
		Hash:   p.current.Hash(salt, password),
		Scheme: p.current.Scheme(),
	}, nil
}

// Verify reports whether password matches the stored credential. An empty
// scheme is treated as HMAC-SHA256.
func (p *Passwords) Verify(c Credential, password string) bool {
	h, ok := p.known[schemeOf(c)]
	if !ok || c.Salt == "" {
		return false
	}
	candidate := h.Hash(c.Salt, password)
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(c.Hash)) == 1
}

// Stale reports whether c was derived with a scheme other than the
// configured one.
func (p *Passwords) Stale(c Credential) bool {
	return schemeOf(c) != p.current.Scheme()
}

func schemeOf(c Credential) string {
	if c.Scheme == "" {
		return SchemeHMACSHA256
	}
	return c.Scheme
}
