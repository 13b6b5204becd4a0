// Package akcipher models the "inner engine" that pkcs1pad composes on top
// of: a raw asymmetric-cipher transform performing modular exponentiation on
// key-sized byte strings, with no padding awareness of its own.
//
// The raw RSA primitive and its key parsing are explicitly out of scope for
// the padding layer; this package exists only so pkcs1pad has a concrete,
// pluggable collaborator to drive instead of talking to a central crypto
// API the way a kernel module would. Production users are expected to
// supply their own Engine backed by a hardware module or a vetted RSA
// library; SoftwareEngine is a reference implementation suitable for tests
// and the CLI.
package akcipher
