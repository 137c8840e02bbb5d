// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/go-jose/go-jose/v3"
	"github.com/go-jose/go-jose/v3/jwt"
	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer is the iss claim on every session token.
const TokenIssuer = "collabhub"

// MinSecretLength is the shortest accepted signing secret, in bytes.
const MinSecretLength = 32

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrWeakSecret    = fmt.Errorf("session secret must be at least %d bytes", MinSecretLength)
	ErrPasswordMatch = errors.New("password does not match")
)

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(h), nil
}

// CheckPassword reports ErrPasswordMatch if password does not produce hash.
func CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrPasswordMatch
	}
	return nil
}

// Claims are the fields carried by a session token.
type Claims struct {
	PrincipalID string
	SessionID   string
	ExpiresAt   time.Time
}

// Issuer signs and verifies HS256 session tokens.
type Issuer struct {
	key    []byte
	ttl    time.Duration
	signer jose.Signer
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) (*Issuer, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrWeakSecret
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive, got %s", ttl)
	}
	key := []byte(secret)
	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.HS256, Key: key},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create token signer: %w", err)
	}
	return &Issuer{key: key, ttl: ttl, signer: signer, now: time.Now}, nil
}

// TTL is how long issued tokens stay valid.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue mints a token for principalID with a fresh session id.
func (i *Issuer) Issue(principalID string) (string, Claims, error) {
	sessionID, err := GenerateID(16)
	if err != nil {
		return "", Claims{}, err
	}
	issuedAt := i.now().UTC()
	expiresAt := issuedAt.Add(i.ttl)

	raw, err := jwt.Signed(i.signer).Claims(jwt.Claims{
		Issuer:   TokenIssuer,
		Subject:  principalID,
		ID:       sessionID,
		IssuedAt: jwt.NewNumericDate(issuedAt),
		Expiry:   jwt.NewNumericDate(expiresAt),
	}).CompactSerialize()
	if err != nil {
		return "", Claims{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return raw, Claims{PrincipalID: principalID, SessionID: sessionID, ExpiresAt: expiresAt.Truncate(time.Second)}, nil
}

// Parse verifies the signature, issuer and expiry of raw.
func (i *Issuer) Parse(raw string) (*Claims, error) {
	tok, err := jwt.ParseSigned(raw)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if len(tok.Headers) != 1 || tok.Headers[0].Algorithm != string(jose.HS256) {
		return nil, ErrInvalidToken
	}

	var c jwt.Claims
	if err := tok.Claims(i.key, &c); err != nil {
		return nil, ErrInvalidToken
	}
	if err := c.ValidateWithLeeway(jwt.Expected{Issuer: TokenIssuer, Time: i.now()}, 0); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if c.Subject == "" || c.ID == "" || c.Expiry == nil {
		return nil, ErrInvalidToken
	}

	return &Claims{PrincipalID: c.Subject, SessionID: c.ID, ExpiresAt: c.Expiry.Time().UTC()}, nil
}

// HashIP creates a one-way hash of an IP address for privacy
// Includes salt to prevent rainbow table attacks
func HashIP(ip, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	// Return first 16 hex chars (64 bits) - enough for deduplication
	return hex.EncodeToString(sum[:8])
}
