// Package sec provides the password hashing primitives for the web
// application and the user administration commands.
//
// Passwords are hashed with bcrypt at the default work factor. Verification
// goes through bcrypt's own constant-time comparison, so a mismatch never
// leaks how much of the digest prefix agreed.
package sec
