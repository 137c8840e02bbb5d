// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides password hashing and session token utilities.

# Passwords

Passwords are stored as bcrypt hashes:

	hash, err := auth.HashPassword(password)
	err = auth.CheckPassword(hash, candidate) // ErrPasswordMatch on mismatch

# Session Tokens

Session tokens are HS256 JWTs signed with a server secret of at least
MinSecretLength bytes:

	issuer, err := auth.NewIssuer(secret, 24*time.Hour)
	token, claims, err := issuer.Issue(principalID)
	claims, err = issuer.Parse(token) // ErrInvalidToken on any failure

The sub claim is the principal id and jti the session id. The session id
is what sign-out revokes, so a validly signed token can still be refused
by the identity provider.

# ID Generation

Random hex IDs:

	id, err := auth.GenerateID(16)  // 32 hex characters

# IP Hashing

Client addresses are hashed before being used as rate limit keys:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
