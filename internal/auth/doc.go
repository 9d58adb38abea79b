// Package auth provides credential handling, token issuance, and user
// account persistence.
//
// Passwords are hashed with Argon2id and stored in PHC string format; the
// plaintext never leaves the Credentials value and the hash is excluded from
// every JSON surface. Access and refresh tokens are self-contained HS256
// JWTs distinguished by a kind claim - validity is determined purely by
// signature and expiry, with no revocation list.
package auth
