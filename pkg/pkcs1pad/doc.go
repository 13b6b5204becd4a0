// Package pkcs1pad implements the PKCS#1 v1.5 padding layer of RFC 2313 /
// RFC 8017: encrypt, decrypt, sign and verify, composed on top of a raw
// RSA primitive (internal/akcipher.Engine).
//
// The package does not implement RSA itself. Encrypt/Sign build a padded
// Encryption Block and drive it through the configured inner akcipher.Engine;
// Decrypt/Verify do the reverse, rejecting any block that doesn't parse per
// the RFC's length and block-type rules. See internal/akcipher for the raw
// primitive this composes on top of, and pkg/pkcs1pad/logging and the
// metrics collector in this package for the ambient observability surface.
package pkcs1pad
