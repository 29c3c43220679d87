// Package identity implements the Identity Resolver.
//
// The source system duplicated the avatar/username priority chain at several
// call sites; this package centralizes it so the tiers cannot drift. Resolve
// is a pure function and never errors.
package identity
