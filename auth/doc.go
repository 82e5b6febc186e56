// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth verifies caller identity and officer keys.

Sessions and logins are handled by an authentication gateway in front of the
API. The gateway forwards the caller as three headers:

	X-User-ID:            opaque account id
	X-User-Email:         verified email (may be empty)
	X-Identity-Signature: HMAC-SHA256 over both, keyed by IDENTITY_SECRET

IdentityFromRequest rejects requests whose signature does not match. The
identity is only attached to voter records; eligibility is decided by the
student id on the ballot.

# Officer Keys

Masterlist management requires an officer key per election:

	key := auth.GenerateOfficerKey(electionID, cfg.OfficerKeySalt)

Keys are deterministic HMACs, so nothing is stored. Comparison uses
hmac.Equal to avoid timing leaks.
*/
package auth
