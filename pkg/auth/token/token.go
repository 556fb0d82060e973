// Package token encodes and verifies the signed bearer tokens issued at
// login and registration. Tokens are compact HS256 JWTs; validity is purely
// a function of signature correctness and expiry, with no server-side state.
package token

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Token verification failures. Callers translate these into the broader
// auth taxonomy before anything reaches the client.
var (
	// ErrInvalid covers bad signatures, malformed structure, and
	// unsupported algorithms.
	ErrInvalid = errors.New("invalid token")

	// ErrExpired means the signature checked out but the token is past
	// its expiry instant.
	ErrExpired = errors.New("token expired")
)

// MinKeyBytes is the minimum decoded signing key length. HS256 keys below
// 256 bits are a configuration error, rejected at startup.
const MinKeyBytes = 32

// Codec signs and verifies bearer tokens with a process-wide symmetric key.
// The key is immutable after construction; a Codec is safe for concurrent
// use without locking.
type Codec struct {
	key []byte
}

// NewCodec builds a Codec from a base64-encoded signing key. A key that
// fails to decode or decodes to fewer than MinKeyBytes bytes is rejected;
// callers treat that as startup-fatal.
func NewCodec(base64Key string) (*Codec, error) {
	key, err := base64.StdEncoding.DecodeString(base64Key)
	if err != nil {
		return nil, fmt.Errorf("decoding signing key: %w", err)
	}
	if len(key) < MinKeyBytes {
		return nil, fmt.Errorf("signing key must be at least %d bytes, got %d", MinKeyBytes, len(key))
	}
	return &Codec{key: key}, nil
}

// Claims is the decoded content of a verified token.
type Claims struct {
	m jwtlib.MapClaims
}

// Subject returns the token subject (the identity's login email), or empty
// if absent.
func (c Claims) Subject() string {
	sub, err := c.m.GetSubject()
	if err != nil {
		return ""
	}
	return sub
}

// IssuedAt returns the iat claim, or the zero time if absent.
func (c Claims) IssuedAt() time.Time {
	iat, err := c.m.GetIssuedAt()
	if err != nil || iat == nil {
		return time.Time{}
	}
	return iat.Time
}

// ExpiresAt returns the exp claim, or the zero time if absent.
func (c Claims) ExpiresAt() time.Time {
	exp, err := c.m.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

// Expired reports whether the token is past its expiry at the given instant.
func (c Claims) Expired(now time.Time) bool {
	exp := c.ExpiresAt()
	return exp.IsZero() || now.After(exp)
}

// Get returns an extra claim by name.
func (c Claims) Get(name string) (any, bool) {
	v, ok := c.m[name]
	return v, ok
}

// Issue signs a token asserting the given subject for ttl from now. Extra
// claims are merged in; the reserved sub, iat, and exp claims always win.
func (c *Codec) Issue(subject string, extra map[string]any, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwtlib.MapClaims{}
	for k, v := range extra {
		claims[k] = v
	}
	claims["sub"] = subject
	claims["iat"] = jwtlib.NewNumericDate(now)
	claims["exp"] = jwtlib.NewNumericDate(now.Add(ttl))

	return jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(c.key)
}

// VerifyAndParse checks the token's signature and expiry and returns its
// claims. The signature is verified before any claim validation, so a token
// that is both forged and expired fails with ErrInvalid, never ErrExpired.
func (c *Codec) VerifyAndParse(tokenStr string) (Claims, error) {
	parsed, err := jwtlib.Parse(tokenStr, func(t *jwtlib.Token) (any, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.key, nil
	},
		jwtlib.WithValidMethods([]string{"HS256"}),
		jwtlib.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return Claims{}, ErrExpired
		}
		return Claims{}, ErrInvalid
	}

	mc, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok || !parsed.Valid {
		return Claims{}, ErrInvalid
	}

	return Claims{m: mc}, nil
}
