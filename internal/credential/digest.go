package credential

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"

	"golang.org/x/crypto/pbkdf2"
)

const (
	SchemeSHA256 = "sha256"
	SchemePBKDF2 = "pbkdf2"
)

const (
	tokenBytes       = 32
	pbkdf2Iterations = 210000
	pbkdf2KeyLength  = 32
)

// Digest turns a secret into a one-way digest and verifies presented secrets
// against a stored digest. Digests are deterministic so the store can match
// them exactly.
type Digest interface {
	Sum(secret string) string
	Verify(stored string, secret string) bool
}

func NewDigest(scheme string, pepper string) (Digest, error) {
	switch scheme {
	case SchemeSHA256:
		return &SHA256Digest{}, nil
	case SchemePBKDF2:
		if pepper == "" {
			return nil, errors.New("pbkdf2 scheme requires a pepper")
		}
		return &PBKDF2Digest{Pepper: pepper}, nil
	default:
		return nil, fmt.Errorf("unknown credential scheme %q", scheme)
	}
}

// SHA256Digest is wire-compatible with stores populated by the legacy
// implementation: hex-encoded unsalted SHA-256. Weak against offline
// guessing, kept only for existing data.
type SHA256Digest struct{}

func (d *SHA256Digest) Sum(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

func (d *SHA256Digest) Verify(stored string, secret string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(d.Sum(secret))) == 1
}

// PBKDF2Digest is the default scheme. The pepper is service-wide rather than
// per-account: lookups require a deterministic digest.
type PBKDF2Digest struct {
	Pepper string
}

func (d *PBKDF2Digest) Sum(secret string) string {
	key := pbkdf2.Key([]byte(secret), []byte(d.Pepper), pbkdf2Iterations, pbkdf2KeyLength, sha256.New)
	return hex.EncodeToString(key)
}

func (d *PBKDF2Digest) Verify(stored string, secret string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(d.Sum(secret))) == 1
}

// NewActivationToken returns a URL-safe token with 256 bits of entropy.
// Collisions are treated as negligible, no retry loop.
func NewActivationToken() (string, error) {
	buf := make([]byte, tokenBytes)

	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// ActivationURL builds the callback URL a dispatcher would send to the user.
func ActivationURL(baseURL string, email string, token string) string {
	params := url.Values{}
	params.Set("email", email)
	params.Set("activation_token", token)

	return fmt.Sprintf("%s/activate?%s", baseURL, params.Encode())
}
