// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package identity is the identity provider: email and password accounts with
bearer session tokens.

	p := identity.NewProvider(db, issuer, store.NewProfileStore(db))
	sess, err := p.SignUp(ctx, models.SignUpRequest{...})
	principal, err := p.Current(ctx, sess.Token)
	err = p.SignOut(ctx, sess.Token)

Sign-up writes the credential, the profile and the session in a single
transaction, so a principal never exists without its profile. Emails are
stored lowercased and are unique.

Errors are sentinels; Message maps them to the notices shown at login and
sign-up.
*/
package identity
